package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/onvo-app/onvo-cli/actions/login"
	"github.com/onvo-app/onvo-cli/actions/profile"
	"github.com/onvo-app/onvo-cli/actions/reset"
	"github.com/onvo-app/onvo-cli/actions/sources"
)

func main() {
	cmd := &cli.Command{
		Name:    "onvo",
		Usage:   "ONVO command-line client",
		Version: "1.0.0",
		Action: func(context.Context, *cli.Command) error {
			fmt.Println("ONVO CLI - Use 'onvo help' for available commands")
			return nil
		},
		Commands: []*cli.Command{
			login.LoginCommand,
			login.LogoutCommand,
			login.StatusCommand,
			reset.ResetPasswordCommand,
			sources.SourcesCommand,
			profile.ProfileCommand,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
