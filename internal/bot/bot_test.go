package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/ewbot/internal/adapters/clients/acl/acltest"
	"github.com/jsamuelsen/ewbot/internal/adapters/discord"
	"github.com/jsamuelsen/ewbot/internal/adapters/discord/discordtest"
	"github.com/jsamuelsen/ewbot/internal/platform/config"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

const (
	testQuoteToken = "qs-token"
	testAdminToken = "admin-token"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "ewbot", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Enabled:         true,
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AdminToken:      testAdminToken,
		},
		Log: config.LogConfig{Level: "error", Format: "json"},
		Client: config.ClientConfig{
			Timeout: 2 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     1,
				InitialInterval: 10 * time.Millisecond,
				MaxInterval:     100 * time.Millisecond,
				Multiplier:      2,
			},
			CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 5, Timeout: time.Second, HalfOpenLimit: 1},
			Transport: config.TransportConfig{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     time.Minute,
			},
		},
		Services: config.ServicesConfig{Quote: config.QuoteServiceConfig{
			BaseURL: baseURL,
			Name:    "quote-service",
			Group:   "ew",
			Token:   testQuoteToken,
		}},
		Discord: config.DiscordConfig{
			Token:           "bot-token",
			RegisterOnReady: true,
			CommandTimeout:  5 * time.Second,
		},
		Cache: config.CacheConfig{SourcesTTL: time.Minute},
	}
}

type fixture struct {
	quotes  *acltest.Server
	session *discordtest.Session
	bot     *Bot
}

func newFixture(t *testing.T, opts ...func(*config.Config)) *fixture {
	t.Helper()

	quotes := acltest.NewServer(testQuoteToken)
	t.Cleanup(quotes.Close)

	quotes.AddSource("Nix", "ew-nix")
	quotes.AddQuote("ew-nix", "Words.", "", "")

	cfg := testConfig(quotes.URL)
	for _, opt := range opts {
		opt(cfg)
	}

	session := discordtest.NewSession()

	b, err := New(cfg, Options{
		Session:  session,
		Registry: prometheus.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Build:    BuildInfo{Version: "1.2.3", Commit: "abc123", BuildTime: "now"},
	})
	require.NoError(t, err)

	return &fixture{quotes: quotes, session: session, bot: b}
}

// run starts the bot and returns a func that stops it and reports Run's error.
func (f *fixture) run(t *testing.T) func() error {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- f.bot.Run(ctx) }()

	require.Eventually(t, f.session.Opened, 2*time.Second, 5*time.Millisecond)

	return func() error {
		cancel()

		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("bot did not stop")

			return nil
		}
	}
}

func (f *fixture) ops(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Token "+testAdminToken)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.bot.Handler().ServeHTTP(w, req)

	return w
}

func TestBot_ServesCommands(t *testing.T) {
	f := newFixture(t)
	stop := f.run(t)

	f.session.Emit(&discordgo.Connect{})
	f.session.Emit(&discordgo.Ready{User: &discordgo.User{ID: "app-from-me", Username: "ewbot"}})

	overwrites := f.session.Overwrites()
	require.Len(t, overwrites, 1)
	assert.Equal(t, "app-from-me", overwrites[0].AppID)
	assert.Len(t, overwrites[0].Commands, 3)

	f.session.Emit(discordtest.CommandInteraction(discord.CommandListCharacters, ""))
	f.session.Emit(discordtest.CommandInteraction(discord.CommandRandomQuote, "Nix"))

	replies, err := f.session.WaitForReplies(2, 5*time.Second)
	require.NoError(t, err)

	contents := []string{replies[0].Content, replies[1].Content}
	assert.Contains(t, contents, discord.MsgCharacterList+"\nNix: nix")
	assert.Contains(t, contents, "> Words.\n> --- Nix")

	require.NoError(t, stop())
	assert.True(t, f.session.Closed())
	assert.Zero(t, f.session.HandlerCount())
}

func TestBot_Health(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := f.bot.Health().CheckAll(ctx)
	assert.Equal(t, ports.HealthStatusUnhealthy, before.Status)
	assert.Equal(t, ports.HealthStatusHealthy, before.Checks["quote-service"].Status)
	assert.Equal(t, ports.HealthStatusUnhealthy, before.Checks["discord-gateway"].Status)

	stop := f.run(t)

	f.session.Emit(&discordgo.Ready{User: &discordgo.User{ID: "app-from-me", Username: "ewbot"}})

	ready := f.ops(http.MethodGet, "/-/ready", "")
	assert.Equal(t, http.StatusOK, ready.Code)

	build := f.ops(http.MethodGet, "/-/build", "")
	assert.Contains(t, build.Body.String(), `"version":"1.2.3"`)

	require.NoError(t, stop())
}

func TestBot_MaintenanceToggle(t *testing.T) {
	f := newFixture(t)
	stop := f.run(t)

	on := f.ops(http.MethodPut, "/-/admin/maintenance", `{"enabled": true}`)
	require.Equal(t, http.StatusOK, on.Code)

	requestsBefore := f.quotes.Requests()

	f.session.Emit(discordtest.CommandInteraction(discord.CommandRandomQuote, ""))

	replies, err := f.session.WaitForReplies(1, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, discord.MsgMaintenance, replies[0].Content)
	assert.True(t, replies[0].Ephemeral)
	assert.Equal(t, requestsBefore, f.quotes.Requests())

	require.NoError(t, stop())
}

func TestBot_MetricsExposeCommands(t *testing.T) {
	f := newFixture(t)
	stop := f.run(t)

	f.session.Emit(discordtest.CommandInteraction(discord.CommandRandomQuote, "Zed"))

	replies, err := f.session.WaitForReplies(1, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, discord.NotFoundMessage("Zed"), replies[0].Content)

	metrics := f.ops(http.MethodGet, "/-/metrics", "")
	assert.Contains(t, metrics.Body.String(),
		`ewbot_commands_total{command="random_quote",outcome="not_found"} 1`)

	require.NoError(t, stop())
}

func TestBot_ServerDisabled(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Server.Enabled = false })

	assert.Nil(t, f.bot.Handler())

	stop := f.run(t)
	require.NoError(t, stop())
}

func TestBot_GatewayOpenFailure(t *testing.T) {
	f := newFixture(t)
	f.session.OpenErr = errors.New("authentication failed")

	err := f.bot.Run(context.Background())

	require.ErrorIs(t, err, f.session.OpenErr)
	assert.True(t, f.session.Closed())
}

// TestBot_DefaultsCallQuoteServiceOncePerCommand builds the bot from the
// shipped defaults: no retries and no character-list cache.
func TestBot_DefaultsCallQuoteServiceOncePerCommand(t *testing.T) {
	t.Setenv("BOT_TOKEN", "bot-token")
	t.Setenv("QS_TOKEN", testQuoteToken)
	t.Setenv("MAINTENANCE_MODE", "")
	t.Setenv("DISCORD_APPLICATION_ID", "")
	t.Setenv("DISCORD_GUILD_ID", "")
	t.Setenv("ADMIN_TOKEN", "")

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/api/sources/" {
			_, _ = w.Write([]byte(`[{"name":"Nix","slug":"ew-nix"}]`))

			return
		}

		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Services.Quote.BaseURL = server.URL
	cfg.Server.Enabled = false

	session := discordtest.NewSession()

	b, err := New(cfg, Options{
		Session:  session,
		Registry: prometheus.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	f := &fixture{session: session, bot: b}
	stop := f.run(t)

	send := func(command string, want int) discordtest.Reply {
		t.Helper()

		session.Emit(discordtest.CommandInteraction(command, ""))

		replies, err := session.WaitForReplies(want, 5*time.Second)
		require.NoError(t, err)

		return replies[want-1]
	}

	failed := send(discord.CommandRandomQuote, 1)
	assert.Equal(t, "The following error occurred: boom", failed.Content)
	assert.Equal(t, int32(1), calls.Load(), "a remote 500 is not retried")

	send(discord.CommandListCharacters, 2)
	listed := send(discord.CommandListCharacters, 3)
	assert.Equal(t, discord.MsgCharacterList+"\nNix: nix", listed.Content)
	assert.Equal(t, int32(3), calls.Load(), "every /listew reaches the quote service")

	require.NoError(t, stop())
}
