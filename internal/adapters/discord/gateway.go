package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/jsamuelsen/ewbot/internal/platform/telemetry"
)

// Health check errors.
var (
	ErrGatewayDisconnected = errors.New("discord gateway not connected")
	ErrGatewayNotReady     = errors.New("discord gateway connected but not ready")
)

// GatewayConfig contains the gateway's dependencies.
type GatewayConfig struct {
	Session Session
	Router  *Router
	Metrics *telemetry.CommandMetrics
	Logger  *slog.Logger

	// ApplicationID and GuildID scope command registration.
	ApplicationID string
	GuildID       string

	// RegisterOnReady overwrites the slash commands on every Ready event.
	RegisterOnReady bool
}

// Gateway owns the Discord connection: it wires event handlers, logs
// lifecycle events, and reports health.
type Gateway struct {
	session Session
	router  *Router
	metrics *telemetry.CommandMetrics
	logger  *slog.Logger

	appID           string
	guildID         string
	registerOnReady bool

	connected atomic.Bool
	ready     atomic.Bool

	mu       sync.Mutex
	removers []func()
}

// NewGateway creates a gateway. Panics if Session or Router is nil.
func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.Session == nil {
		panic("Gateway: Session is required")
	}

	if cfg.Router == nil {
		panic("Gateway: Router is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		session:         cfg.Session,
		router:          cfg.Router,
		metrics:         cfg.Metrics,
		logger:          logger.With(slog.String("component", "discord.Gateway")),
		appID:           cfg.ApplicationID,
		guildID:         cfg.GuildID,
		registerOnReady: cfg.RegisterOnReady,
	}
}

// Start registers event handlers and opens the websocket.
func (g *Gateway) Start() error {
	g.mu.Lock()
	g.removers = append(g.removers,
		g.session.AddHandler(g.onReady),
		g.session.AddHandler(g.onConnect),
		g.session.AddHandler(g.onDisconnect),
		g.session.AddHandler(g.router.HandleInteraction),
	)
	g.mu.Unlock()

	g.logger.Info("opening discord gateway")

	if err := g.session.Open(); err != nil {
		g.removeHandlers()

		return fmt.Errorf("opening discord gateway: %w", err)
	}

	return nil
}

// Stop drains in-flight commands, then closes the websocket.
func (g *Gateway) Stop(ctx context.Context) error {
	g.logger.InfoContext(ctx, "closing discord gateway")

	drainErr := g.router.Shutdown(ctx)

	g.removeHandlers()

	closeErr := g.session.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("closing discord gateway: %w", closeErr)
	}

	g.connected.Store(false)
	g.ready.Store(false)

	return errors.Join(drainErr, closeErr)
}

func (g *Gateway) removeHandlers() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, remove := range g.removers {
		remove()
	}

	g.removers = nil
}

func (g *Gateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	g.ready.Store(true)
	g.connected.Store(true)
	g.metrics.GatewayEvent("ready")

	attrs := []any{slog.Int("guilds", len(r.Guilds))}
	if r.User != nil {
		attrs = append(attrs, slog.String("user", r.User.Username), slog.String("user_id", r.User.ID))
	}

	g.logger.Info("discord gateway ready", attrs...)

	if !g.registerOnReady {
		return
	}

	appID := g.appID
	if appID == "" && r.Application != nil {
		appID = r.Application.ID
	}

	registered, err := RegisterCommands(g.session, appID, g.guildID)
	if err != nil {
		g.logger.Error("failed to register slash commands", slog.Any("error", err))

		return
	}

	g.logger.Info("registered slash commands",
		slog.Int("count", len(registered)),
		slog.String("guild_id", g.guildID))
}

func (g *Gateway) onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	g.connected.Store(true)
	g.metrics.GatewayEvent("connect")
	g.logger.Info("discord gateway connected")
}

func (g *Gateway) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	g.connected.Store(false)
	g.ready.Store(false)
	g.metrics.GatewayEvent("disconnect")
	g.logger.Warn("discord gateway disconnected")
}

// Name implements ports.HealthChecker.
func (g *Gateway) Name() string {
	return "discord-gateway"
}

// Check implements ports.HealthChecker.
func (g *Gateway) Check(context.Context) error {
	switch {
	case !g.connected.Load():
		return ErrGatewayDisconnected
	case !g.ready.Load():
		return ErrGatewayNotReady
	default:
		return nil
	}
}
