// Package cli implements the ewbot command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/ewbot/internal/adapters/discord"
	"github.com/jsamuelsen/ewbot/internal/bot"
	"github.com/jsamuelsen/ewbot/internal/platform/config"
	"github.com/jsamuelsen/ewbot/internal/platform/logging"
)

// options is shared by every subcommand.
type options struct {
	profile string
	build   bot.BuildInfo

	// newSession opens nothing; it only builds the REST/gateway client.
	newSession func(token, logLevel string) (discord.Session, error)
}

// NewRootCommand builds the ewbot command tree.
func NewRootCommand(build bot.BuildInfo) *cobra.Command {
	return newRootCommand(&options{
		build: build,
		newSession: func(token, logLevel string) (discord.Session, error) {
			return discord.NewSession(token, logLevel)
		},
	})
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "ewbot",
		Short:         "Discord bot serving quotes and generated sentences from the quote service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.profile, "profile", "p", defaultProfile(),
		"configuration profile, loaded from configs/{profile}.yaml")

	root.AddCommand(
		newRunCommand(opts),
		newRegisterCommand(opts),
		newVersionCommand(opts),
	)

	return root
}

// Execute runs the command line until it finishes or SIGINT/SIGTERM arrives,
// and returns the process exit code.
func Execute(build bot.BuildInfo) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand(build).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)

		return 1
	}

	return 0
}

// defaultProfile is APP_ENVIRONMENT, or "local".
func defaultProfile() string {
	if profile := os.Getenv("APP_ENVIRONMENT"); profile != "" {
		return profile
	}

	return "local"
}

// loadConfig loads and validates configuration for the selected profile.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// newLogger installs the configured logger as the default and routes
// discordgo's own logging through it.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})

	slog.SetDefault(logger)
	discord.RouteLibraryLogs(logger)

	return logger
}
