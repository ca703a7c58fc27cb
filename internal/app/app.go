// Package app wires the client together: config, logging, storage, the
// API client, repositories, and the state holders. Commands build one
// App per invocation and close it when done.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/onvo-app/onvo-cli/client"
	"github.com/onvo-app/onvo-cli/internal/auth"
	"github.com/onvo-app/onvo-cli/internal/config"
	"github.com/onvo-app/onvo-cli/internal/passwordreset"
	"github.com/onvo-app/onvo-cli/internal/profile"
	"github.com/onvo-app/onvo-cli/internal/storage"
)

// App holds the assembled dependency graph.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *storage.Store
	Client  *client.Client
	Auth    *auth.Repository
	Profile *profile.Repository
	Manager *auth.Manager
	Reset   *passwordreset.Flow
}

// Build assembles the graph from the config at configPath. An empty
// path means the default location. debug forces debug-level logging
// regardless of the configured level.
func Build(configPath string, debug bool) (*App, error) {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := logLevel(cfg.LogLevel)
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := storage.Open(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.BaseURL, cfg.Timeout(), logger)
	authRepo := auth.NewRepository(api, store, logger)
	profileRepo := profile.NewRepository(api, store, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Client:  api,
		Auth:    authRepo,
		Profile: profileRepo,
		Manager: auth.NewManager(authRepo, profileRepo, logger),
		Reset:   passwordreset.NewFlow(api, authRepo, store, logger),
	}, nil
}

// FromCommand builds an App from the root command's persistent flags.
func FromCommand(cmd *cli.Command) (*App, error) {
	return Build(cmd.String("config"), cmd.Bool("debug"))
}

// Close releases held resources.
func (a *App) Close() error {
	return a.Store.Close()
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
