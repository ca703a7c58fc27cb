package reset

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
	"github.com/onvo-app/onvo-cli/internal/passwordreset"
)

const maxAttempts = 3

// ResetPasswordCommand drives the password-reset flow: identify the
// account, verify the emailed code, set a new password.
var ResetPasswordCommand = &cli.Command{
	Name:  "reset-password",
	Usage: "Reset your account password",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Username, email, or phone number",
		},
		&cli.BoolFlag{
			Name:  "from-settings",
			Usage: "Change the password of the signed-in account",
		},
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
	Action: resetAction,
}

func resetAction(ctx context.Context, cmd *cli.Command) error {
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

	if cmd.Bool("from-settings") {
		sess := a.Manager.Session()
		if !sess.IsAuthenticated() {
			return errors.New("not logged in; run 'onvo login' first or omit --from-settings")
		}
		if err := a.Reset.InitializeFromSettings(ctx, sess.UserID); err != nil {
			a.Logger.Debug("code request failed", "error", err)
		}
	} else {
		input := cmd.String("input")
		if input == "" {
			input, err = promptInput("Username, email, or phone: ")
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
		}
		if err := a.Reset.RequestCodeByInput(ctx, input); err != nil {
			a.Logger.Debug("code request failed", "error", err)
		}
	}

	if snap := a.Reset.Snapshot(); snap.Error != "" {
		return errors.New(snap.Error)
	}

	if err := runCodeStep(ctx, a.Reset); err != nil {
		return err
	}
	if err := runPasswordStep(ctx, a.Reset); err != nil {
		return err
	}

	snap := a.Reset.Snapshot()
	done, ok := snap.Step.(passwordreset.Success)
	if !ok {
		return errors.New("password reset did not complete")
	}
	if done.FromSettings {
		fmt.Printf("\n✓ Password changed for %s\n", done.UserName)
	} else {
		fmt.Printf("\n✓ Password reset complete. You are now logged in as %s\n", done.UserName)
	}
	return nil
}

// runCodeStep prompts for the emailed code until it verifies or the
// attempts run out. Entering "r" requests a fresh code.
func runCodeStep(ctx context.Context, flow *passwordreset.Flow) error {
	snap := flow.Snapshot()
	step, ok := snap.Step.(passwordreset.EnterCode)
	if !ok {
		return fmt.Errorf("unexpected step %T", snap.Step)
	}
	if step.Message != "" {
		fmt.Println(step.Message)
	} else {
		fmt.Println("A verification code has been sent to your recovery email.")
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := promptInput("Code (or 'r' to resend): ")
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}
		if strings.EqualFold(code, "r") {
			if err := flow.ResendCode(ctx); err != nil {
				fmt.Printf("Failed to resend code: %v\n", err)
			} else if snap := flow.Snapshot(); snap.Error != "" {
				fmt.Println(snap.Error)
			} else {
				fmt.Println("Code resent.")
			}
			attempt--
			continue
		}

		// The snapshot carries the user-facing message on failure.
		_ = flow.SubmitCode(ctx, code)
		snap := flow.Snapshot()
		if _, ok := snap.Step.(passwordreset.EnterNewPassword); ok {
			return nil
		}
		if snap.Error != "" {
			fmt.Println(snap.Error)
			flow.ClearError()
		}
	}
	return errors.New("too many invalid codes")
}

// runPasswordStep prompts for the new password until the server
// accepts it or the attempts run out.
func runPasswordStep(ctx context.Context, flow *passwordreset.Flow) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		password, err := promptPassword("New password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		_ = flow.ChangePassword(ctx, password, confirm)
		snap := flow.Snapshot()
		if _, ok := snap.Step.(passwordreset.Success); ok {
			return nil
		}
		if snap.Error != "" {
			fmt.Println(snap.Error)
			flow.ClearError()
		}
	}
	return errors.New("password change failed")
}

func promptInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

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
