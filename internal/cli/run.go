package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/ewbot/internal/bot"
	"github.com/jsamuelsen/ewbot/internal/platform/telemetry"
)

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve slash commands until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}
}

func (o *options) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	logger.Info("starting ewbot",
		slog.String("version", o.build.Version),
		slog.String("commit", o.build.Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("profile", o.profile),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      o.build.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	session, err := o.newSession(cfg.Discord.Token, cfg.Discord.LogLevel)
	if err != nil {
		return err
	}

	b, err := bot.New(cfg, bot.Options{
		Session: session,
		Logger:  logger,
		Build:   o.build,
	})
	if err != nil {
		return err
	}

	if err := b.Run(ctx); err != nil {
		return fmt.Errorf("running bot: %w", err)
	}

	return nil
}
