package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/onvo-app/onvo-cli/internal/app"
	profilesvc "github.com/onvo-app/onvo-cli/internal/profile"
)

// ProfileCommand shows a user profile. Without an argument it shows
// the signed-in user.
var ProfileCommand = &cli.Command{
	Name:      "profile",
	Usage:     "Show a user profile",
	ArgsUsage: "[user-id]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the config file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug output",
		},
	},
	Action: profileAction,
}

func profileAction(ctx context.Context, cmd *cli.Command) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var userID int
	if arg := cmd.Args().First(); arg != "" {
		userID, err = strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid user id %q", arg)
		}
	} else {
		user, err := a.Profile.CurrentUserStatus(ctx)
		if err != nil {
			if errors.Is(err, profilesvc.ErrSessionExpired) {
				return errors.New("session expired, please login again")
			}
			var notLoggedIn *profilesvc.NotLoggedInError
			if errors.As(err, &notLoggedIn) {
				return errors.New("not logged in; pass a user id or run 'onvo login'")
			}
			return err
		}
		userID = user.ID
	}

	resp, err := a.Profile.UserProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	user := resp.User
	name := user.Fullname
	if name == "" {
		name = user.Fnme
	}
	username := user.Username
	if username == "" {
		username = user.Usnm
	}

	fmt.Printf("%s (@%s)\n", name, username)
	if user.IsVerified || user.Vrfy == "1" {
		fmt.Println("  Verified")
	}
	if user.Bio != "" {
		fmt.Printf("  %s\n", user.Bio)
	}
	fmt.Printf("  Followers: %s  Following: %s  Likes: %s\n",
		user.Cnt.Followers, user.Cnt.Following, user.Cnt.Likes)

	links := resp.Links
	if len(links) == 0 {
		links = user.Lnks
	}
	for _, link := range links {
		label := link.D
		if label == "" {
			label = string(profilesvc.KindOf(link))
		}
		fmt.Printf("  %s: %s\n", label, link.URL)
	}
	return nil
}
