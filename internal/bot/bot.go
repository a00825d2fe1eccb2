// Package bot assembles ewbot from configuration: the quote-service client,
// the application service, the Discord gateway and the ops HTTP server.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/ewbot/internal/adapters/cache"
	"github.com/jsamuelsen/ewbot/internal/adapters/clients"
	"github.com/jsamuelsen/ewbot/internal/adapters/clients/acl"
	"github.com/jsamuelsen/ewbot/internal/adapters/discord"
	"github.com/jsamuelsen/ewbot/internal/adapters/flags"
	"github.com/jsamuelsen/ewbot/internal/adapters/http"
	"github.com/jsamuelsen/ewbot/internal/adapters/http/handlers"
	"github.com/jsamuelsen/ewbot/internal/app"
	"github.com/jsamuelsen/ewbot/internal/platform/config"
	"github.com/jsamuelsen/ewbot/internal/platform/telemetry"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

// BuildInfo identifies the running binary. Values are injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options overrides the collaborators New would otherwise build itself.
type Options struct {
	// Session replaces the discordgo session created from the bot token.
	Session discord.Session

	// Registry receives the bot's Prometheus collectors. Defaults to a new
	// registry with the Go and process collectors.
	Registry *prometheus.Registry

	Logger *slog.Logger
	Build  BuildInfo
}

// Bot is a fully wired ewbot instance.
type Bot struct {
	cfg    *config.Config
	logger *slog.Logger

	gateway *discord.Gateway
	server  *http.Server
	quotes  *app.QuoteService
	health  *ports.DefaultHealthRegistry
}

// New wires every component from cfg. Nothing connects until Run.
func New(cfg *config.Config, opts Options) (*Bot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	session := opts.Session
	if session == nil {
		s, err := discord.NewSession(cfg.Discord.Token, cfg.Discord.LogLevel)
		if err != nil {
			return nil, err
		}

		session = s
	}

	quoteCfg := cfg.Services.Quote

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     quoteCfg.BaseURL,
		ServiceName: quoteCfg.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		RateLimit:   cfg.Client.RateLimit,
		AuthFunc:    clients.TokenAuth(quoteCfg.Token),
		UserAgent:   cfg.App.Name + "/" + opts.Build.Version,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating quote-service client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Group:  quoteCfg.Group,
		Logger: logger,
	})

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		QuoteClient: quoteClient,
		Group:       quoteCfg.Group,
		Cache:       cache.NewMemory(cfg.Cache.SourcesTTL),
		SourcesTTL:  cfg.Cache.SourcesTTL,
		Logger:      logger,
	})

	metrics, err := telemetry.NewCommandMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering command metrics: %w", err)
	}

	flagSet := flags.FromConfig(cfg)

	router := discord.NewRouter(discord.RouterConfig{
		Session:        session,
		Quotes:         quotes,
		Flags:          flagSet,
		Presenter:      discord.NewPresenter(quoteCfg.Group),
		Metrics:        metrics,
		Logger:         logger,
		CommandTimeout: cfg.Discord.CommandTimeout,
		DeferAfter:     cfg.Discord.DeferAfter,
	})

	gateway := discord.NewGateway(discord.GatewayConfig{
		Session:         session,
		Router:          router,
		Metrics:         metrics,
		Logger:          logger,
		ApplicationID:   cfg.Discord.ApplicationID,
		GuildID:         cfg.Discord.GuildID,
		RegisterOnReady: cfg.Discord.RegisterOnReady,
	})

	health := ports.NewHealthRegistry()

	for _, checker := range []ports.HealthChecker{quoteClient, gateway} {
		if err := health.Register(checker); err != nil {
			return nil, fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	b := &Bot{
		cfg:     cfg,
		logger:  logger,
		gateway: gateway,
		quotes:  quotes,
		health:  health,
	}

	if cfg.Server.Enabled {
		b.server = http.New(&cfg.Server, logger)

		http.SetupRouter(b.server.Engine(), http.RouterConfig{
			Logger:      logger,
			ServiceName: cfg.App.Name,
			HealthHandler: handlers.NewHealthHandler(
				health,
				handlers.NewBuildInfo(opts.Build.Version, opts.Build.Commit, opts.Build.BuildTime),
				reg,
			),
			AdminHandler: handlers.NewAdminHandler(quotes, flagSet),
			AdminToken:   cfg.Server.AdminToken,
		})
	}

	return b, nil
}

// Handler returns the ops server's handler, or nil when the server is disabled.
func (b *Bot) Handler() nethttp.Handler {
	if b.server == nil {
		return nil
	}

	return b.server.Engine()
}

// Health returns the registry backing /-/ready.
func (b *Bot) Health() ports.HealthRegistry {
	return b.health
}

// Run opens the gateway and serves the ops server until ctx is done or the
// ops server fails, then shuts both down within the configured timeout.
func (b *Bot) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if b.server != nil {
		serverErr := b.server.Start()

		g.Go(func() error {
			select {
			case err := <-serverErr:
				return err
			case <-gctx.Done():
				return nil
			}
		})
	}

	if err := b.gateway.Start(); err != nil {
		shutdownErr := b.shutdown(ctx)

		return errors.Join(err, shutdownErr, g.Wait())
	}

	b.logger.Info("ewbot running",
		slog.String("group", b.quotes.Group()),
		slog.Bool("maintenance", b.cfg.Maintenance.Enabled()),
	)

	<-gctx.Done()

	if cause := context.Cause(gctx); cause != nil && !errors.Is(cause, context.Canceled) {
		b.logger.Error("ops server failed", slog.Any("error", cause))
	}

	shutdownErr := b.shutdown(ctx)

	return errors.Join(g.Wait(), shutdownErr)
}

// shutdown stops the gateway first so in-flight commands can still finish
// their quote-service calls, then the ops server.
func (b *Bot) shutdown(ctx context.Context) error {
	timeout := b.cfg.Server.ShutdownTimeout

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	b.logger.Info("initiating graceful shutdown", slog.Duration("timeout", timeout))

	var errs []error

	if err := b.gateway.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	if b.server != nil {
		if err := b.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	b.logger.Info("shutdown complete")

	return nil
}
