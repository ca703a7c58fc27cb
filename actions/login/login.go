package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/onvo-app/onvo-cli/internal/app"
	"github.com/onvo-app/onvo-cli/internal/auth"
	"github.com/onvo-app/onvo-cli/internal/profile"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the config file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug output",
		},
	}
}

// LoginCommand signs in to an ONVO account.
var LoginCommand = &cli.Command{
	Name:  "login",
	Usage: "Login to your ONVO account",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Username, email, or phone number",
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password (not recommended, use interactive prompt)",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Force new login even if a session exists",
		},
	}, commonFlags()...),
	Action: loginAction,
}

// LogoutCommand ends the current session.
var LogoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Logout from your ONVO account",
	Flags:  commonFlags(),
	Action: logoutAction,
}

// StatusCommand shows the current session.
var StatusCommand = &cli.Command{
	Name:   "status",
	Usage:  "Check current login status",
	Flags:  commonFlags(),
	Action: statusAction,
}

func loginAction(ctx context.Context, cmd *cli.Command) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Manager.Initialize(ctx); err != nil {
		if state, ok := a.Manager.State().(auth.Failed); ok {
			return errors.New(state.Message)
		}
		return err
	}

	if a.Manager.IsLoggedIn() && !cmd.Bool("force") {
		sess := a.Manager.Session()
		fmt.Printf("✓ Already logged in as %s\n", sess.UserName)
		return nil
	}

	input := cmd.String("input")
	if input == "" {
		input, err = promptInput("Username, email, or phone: ")
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}

	if err := a.Manager.CheckInput(ctx, input); err != nil && !errors.Is(err, auth.ErrBusy) {
		// The state carries the user-facing message below.
		a.Logger.Debug("check input failed", "error", err)
	}

	var account auth.CheckInputSuccess
	switch state := a.Manager.State().(type) {
	case auth.CheckInputSuccess:
		account = state
		if state.FullName != "" {
			fmt.Printf("Account found: %s (@%s)\n", state.FullName, state.Type)
		} else {
			fmt.Printf("Account found: @%s\n", state.Type)
		}
	case auth.Failed:
		return errors.New(state.Message)
	default:
		return fmt.Errorf("unexpected state %T", state)
	}

	password := cmd.String("password")
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	fmt.Println("Logging in...")
	if err := a.Manager.Login(ctx, account.ID, password); err != nil {
		a.Logger.Debug("login failed", "error", err)
	}

	switch state := a.Manager.State().(type) {
	case auth.LoginSuccess:
		fmt.Printf("\n✓ Successfully logged in as %s\n", state.UserName)
		fmt.Printf("  Storage: %s\n", a.Config.StoragePath)
		if first, err := a.Store.IsFirstLaunch(ctx); err == nil && first {
			fmt.Println("  Welcome to ONVO!")
			if err := a.Store.SetFirstLaunchComplete(ctx); err != nil {
				a.Logger.Warn("failed to record first launch", "error", err)
			}
		}
		return nil
	case auth.Failed:
		return errors.New(state.Message)
	default:
		return fmt.Errorf("unexpected state %T", state)
	}
}

func logoutAction(ctx context.Context, cmd *cli.Command) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.Auth.Session(ctx)
	if err != nil {
		return err
	}
	if !sess.IsAuthenticated() {
		fmt.Println("Not currently logged in")
		return nil
	}

	if err := a.Manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Printf("✓ Successfully logged out from %s\n", sess.UserName)
	return nil
}

func statusAction(ctx context.Context, cmd *cli.Command) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.Auth.Session(ctx)
	if err != nil {
		return err
	}
	if !sess.IsAuthenticated() {
		fmt.Println("Status: Not logged in")
		fmt.Println("\nUse 'onvo login' to authenticate")
		return nil
	}

	user, err := a.Profile.CurrentUserStatus(ctx)
	if err != nil {
		if errors.Is(err, profile.ErrSessionExpired) {
			fmt.Println("Status: Session expired")
			fmt.Println("\nUse 'onvo login' to authenticate again")
			return nil
		}
		return err
	}

	fmt.Println("Status: Logged in")
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  User ID: %d\n", user.ID)
	if user.Fullname != "" {
		fmt.Printf("  Name: %s\n", user.Fullname)
	}
	fmt.Printf("  Storage: %s\n", a.Config.StoragePath)
	return nil
}

// promptInput prompts for a line of input.
func promptInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptPassword prompts for hidden input, falling back to a regular
// read when stdin is not a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	return promptInput("")
}
