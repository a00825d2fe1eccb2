package discord

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/ewbot/internal/adapters/discord/discordtest"
	"github.com/jsamuelsen/ewbot/internal/adapters/flags"
	"github.com/jsamuelsen/ewbot/internal/domain"
	"github.com/jsamuelsen/ewbot/internal/mocks"
	"github.com/jsamuelsen/ewbot/internal/platform/requestid"
	"github.com/jsamuelsen/ewbot/internal/platform/telemetry"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

// fakeQuotes is a scripted QuoteUseCases that counts calls.
type fakeQuotes struct {
	calls atomic.Int32

	list     func(ctx context.Context) ([]domain.Source, error)
	quote    func(ctx context.Context, character string) (*domain.Quote, error)
	sentence func(ctx context.Context, character string) (*domain.Sentence, error)
}

func (f *fakeQuotes) ListCharacters(ctx context.Context) ([]domain.Source, error) {
	f.calls.Add(1)

	return f.list(ctx)
}

func (f *fakeQuotes) RandomQuote(ctx context.Context, character string) (*domain.Quote, error) {
	f.calls.Add(1)

	return f.quote(ctx, character)
}

func (f *fakeQuotes) GenerateSentence(ctx context.Context, character string) (*domain.Sentence, error) {
	f.calls.Add(1)

	return f.sentence(ctx, character)
}

type routerFixture struct {
	session *discordtest.Session
	quotes  *fakeQuotes
	flags   *flags.Static
	reg     *prometheus.Registry
	router  *Router
}

func newRouterFixture(t *testing.T, opts ...func(*RouterConfig)) *routerFixture {
	t.Helper()

	reg := prometheus.NewRegistry()

	metrics, err := telemetry.NewCommandMetrics(reg)
	require.NoError(t, err)

	f := &routerFixture{
		session: discordtest.NewSession(),
		quotes:  &fakeQuotes{},
		flags:   flags.NewStatic(),
		reg:     reg,
	}

	cfg := RouterConfig{
		Session:   f.session,
		Quotes:    f.quotes,
		Flags:     f.flags,
		Presenter: NewPresenter("ew"),
		Metrics:   metrics,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	f.router = NewRouter(cfg)

	return f
}

// handle dispatches one interaction and waits for it to finish.
func (f *routerFixture) handle(t *testing.T, i *discordgo.InteractionCreate) {
	t.Helper()

	f.router.HandleInteraction(nil, i)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, f.router.Shutdown(ctx))
}

// assertCommands checks the only command counter series recorded.
func (f *routerFixture) assertCommands(t *testing.T, command, outcome string) {
	t.Helper()

	expected := `
# HELP ewbot_commands_total Slash commands handled, by command and outcome.
# TYPE ewbot_commands_total counter
ewbot_commands_total{command="` + command + `",outcome="` + outcome + `"} 1
`

	require.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "ewbot_commands_total"))
}

func (f *routerFixture) onlyResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()

	responses := f.session.Responses()
	require.Len(t, responses, 1)

	return responses[0]
}

func TestNewRouter_RequiresDependencies(t *testing.T) {
	valid := RouterConfig{
		Session:   discordtest.NewSession(),
		Quotes:    &fakeQuotes{},
		Flags:     flags.NewStatic(),
		Presenter: NewPresenter("ew"),
	}

	assert.NotPanics(t, func() { NewRouter(valid) })

	for name, mutate := range map[string]func(*RouterConfig){
		"session":   func(c *RouterConfig) { c.Session = nil },
		"quotes":    func(c *RouterConfig) { c.Quotes = nil },
		"flags":     func(c *RouterConfig) { c.Flags = nil },
		"presenter": func(c *RouterConfig) { c.Presenter = nil },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)

			assert.Panics(t, func() { NewRouter(cfg) })
		})
	}
}

func TestRouter_ListCharacters(t *testing.T) {
	f := newRouterFixture(t)
	f.quotes.list = func(context.Context) ([]domain.Source, error) {
		return []domain.Source{{Name: "Nix", Slug: "ew-nix"}, {Name: "Lord Shaper", Slug: "ew-lord-shaper"}}, nil
	}

	f.handle(t, discordtest.CommandInteraction(CommandListCharacters, ""))

	resp := f.onlyResponse(t)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, "The following characters were found:\nNix: nix\nLord Shaper: lord-shaper", resp.Data.Content)
	assert.Zero(t, resp.Data.Flags&discordgo.MessageFlagsEphemeral)
	f.assertCommands(t, CommandListCharacters, telemetry.OutcomeOK)
}

func TestRouter_RandomQuote_PassesCharacter(t *testing.T) {
	f := newRouterFixture(t)

	var got string

	f.quotes.quote = func(_ context.Context, character string) (*domain.Quote, error) {
		got = character

		return &domain.Quote{Text: "Hi", Source: domain.Source{Name: "Nix"}}, nil
	}

	f.handle(t, discordtest.CommandInteraction(CommandRandomQuote, "Nix"))

	assert.Equal(t, "Nix", got)
	assert.Equal(t, "> Hi\n> --- Nix", f.onlyResponse(t).Data.Content)
}

func TestRouter_RandomQuote_NotFound(t *testing.T) {
	f := newRouterFixture(t)
	f.quotes.quote = func(context.Context, string) (*domain.Quote, error) {
		return nil, domain.NewNotFoundError("source", "ew-zed")
	}

	f.handle(t, discordtest.CommandInteraction(CommandRandomQuote, "Zed"))

	assert.Contains(t, f.onlyResponse(t).Data.Content, "not found")
	f.assertCommands(t, CommandRandomQuote, telemetry.OutcomeNotFound)
}

func TestRouter_GenerateSentence_Group(t *testing.T) {
	f := newRouterFixture(t)
	f.quotes.sentence = func(_ context.Context, character string) (*domain.Sentence, error) {
		assert.Empty(t, character)

		return &domain.Sentence{Text: "Words."}, nil
	}

	f.handle(t, discordtest.CommandInteraction(CommandGenerateSentence, ""))

	assert.Equal(t, "> Words.\n ---EWBot", f.onlyResponse(t).Data.Content)
}

func TestRouter_TransportFailureIsGenericText(t *testing.T) {
	f := newRouterFixture(t)
	f.quotes.sentence = func(context.Context, string) (*domain.Sentence, error) {
		return nil, domain.NewUnavailableError("quote-service", "connection refused")
	}

	f.handle(t, discordtest.CommandInteraction(CommandGenerateSentence, "nix"))

	assert.Equal(t, MsgGenericFailure, f.onlyResponse(t).Data.Content)
}

func TestRouter_MaintenanceSkipsQuoteService(t *testing.T) {
	for _, name := range []string{CommandListCharacters, CommandRandomQuote, CommandGenerateSentence} {
		t.Run(name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.flags.SetBool(ports.FlagMaintenanceMode, true)

			f.handle(t, discordtest.CommandInteraction(name, "nix"))

			resp := f.onlyResponse(t)
			assert.Equal(t, MsgMaintenance, resp.Data.Content)
			assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
			assert.Zero(t, f.quotes.calls.Load())
		})
	}
}

func TestRouter_MaintenanceFlagReadPerCommand(t *testing.T) {
	flagSet := mocks.NewMockFeatureFlags(t)
	flagSet.EXPECT().IsEnabled(mock.Anything, ports.FlagMaintenanceMode, false).Return(false).Once()
	flagSet.EXPECT().IsEnabled(mock.Anything, ports.FlagMaintenanceMode, false).Return(true).Once()

	f := newRouterFixture(t, func(cfg *RouterConfig) { cfg.Flags = flagSet })
	f.quotes.list = func(context.Context) ([]domain.Source, error) {
		return []domain.Source{{Name: "Nix", Slug: "ew-nix"}}, nil
	}

	f.router.HandleInteraction(nil, discordtest.CommandInteraction(CommandListCharacters, ""))
	_, err := f.session.WaitForReplies(1, 5*time.Second)
	require.NoError(t, err)

	f.handle(t, discordtest.CommandInteraction(CommandListCharacters, ""))

	replies := f.session.Replies()
	require.Len(t, replies, 2)
	assert.Equal(t, "The following characters were found:\nNix: nix", replies[0].Content)
	assert.Equal(t, MsgMaintenance, replies[1].Content)
	assert.True(t, replies[1].Ephemeral)
	assert.Equal(t, int32(1), f.quotes.calls.Load())
}

func TestRouter_UnknownCommand(t *testing.T) {
	f := newRouterFixture(t)

	f.handle(t, discordtest.CommandInteraction("list_characters", ""))

	resp := f.onlyResponse(t)
	assert.Equal(t, MsgUnknownCommand, resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Zero(t, f.quotes.calls.Load())
}

func TestRouter_IgnoresNonCommandInteractions(t *testing.T) {
	f := newRouterFixture(t)

	ping := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}}

	f.handle(t, ping)
	f.router.HandleInteraction(nil, nil)

	assert.Empty(t, f.session.Responses())
}

func TestRouter_PanicBecomesGenericFailure(t *testing.T) {
	f := newRouterFixture(t)
	f.quotes.list = func(context.Context) ([]domain.Source, error) {
		panic("boom")
	}

	f.handle(t, discordtest.CommandInteraction(CommandListCharacters, ""))

	assert.Equal(t, MsgGenericFailure, f.onlyResponse(t).Data.Content)
}

func TestRouter_ContextCarriesRequestID(t *testing.T) {
	f := newRouterFixture(t)

	var id string

	f.quotes.list = func(ctx context.Context) ([]domain.Source, error) {
		id = requestid.FromContext(ctx)

		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)

		return nil, nil
	}

	ic := discordtest.CommandInteraction(CommandListCharacters, "")
	f.handle(t, ic)

	assert.Equal(t, ic.ID, id)
}

func TestRouter_DefersSlowCommands(t *testing.T) {
	f := newRouterFixture(t, func(c *RouterConfig) { c.DeferAfter = 10 * time.Millisecond })

	f.quotes.quote = func(context.Context, string) (*domain.Quote, error) {
		time.Sleep(100 * time.Millisecond)

		return &domain.Quote{Text: "Slow", Source: domain.Source{Name: "Nix"}}, nil
	}

	f.handle(t, discordtest.CommandInteraction(CommandRandomQuote, ""))

	resp := f.onlyResponse(t)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, resp.Type)

	edits := f.session.Edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "> Slow\n> --- Nix", *edits[0].Content)
}

func TestRouter_FastCommandsAreNotDeferred(t *testing.T) {
	f := newRouterFixture(t, func(c *RouterConfig) { c.DeferAfter = time.Second })
	f.quotes.quote = func(context.Context, string) (*domain.Quote, error) {
		return &domain.Quote{Text: "Quick", Source: domain.Source{Name: "Nix"}}, nil
	}

	f.handle(t, discordtest.CommandInteraction(CommandRandomQuote, ""))

	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, f.onlyResponse(t).Type)
	assert.Empty(t, f.session.Edits())
}

func TestRouter_CommandTimeout(t *testing.T) {
	f := newRouterFixture(t, func(c *RouterConfig) { c.CommandTimeout = 20 * time.Millisecond })
	f.quotes.list = func(ctx context.Context) ([]domain.Source, error) {
		<-ctx.Done()

		return nil, domain.NewUnavailableError("quote-service", ctx.Err().Error())
	}

	f.handle(t, discordtest.CommandInteraction(CommandListCharacters, ""))

	assert.Equal(t, MsgGenericFailure, f.onlyResponse(t).Data.Content)
}

func TestRouter_RespondErrorIsLogged(t *testing.T) {
	f := newRouterFixture(t)
	f.session.RespondErr = errors.New("unknown interaction")
	f.quotes.list = func(context.Context) ([]domain.Source, error) { return nil, nil }

	f.handle(t, discordtest.CommandInteraction(CommandListCharacters, ""))

	assert.Len(t, f.session.Responses(), 1)
}

func TestRouter_ShutdownDrainsAndRejects(t *testing.T) {
	f := newRouterFixture(t)

	release := make(chan struct{})
	started := make(chan struct{})

	f.quotes.list = func(context.Context) ([]domain.Source, error) {
		close(started)
		<-release

		return nil, nil
	}

	f.router.HandleInteraction(nil, discordtest.CommandInteraction(CommandListCharacters, ""))
	<-started

	shortCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, f.router.Shutdown(shortCtx), context.DeadlineExceeded)

	f.router.HandleInteraction(nil, discordtest.CommandInteraction(CommandListCharacters, ""))

	close(release)

	require.NoError(t, f.router.Shutdown(context.Background()))
	assert.Len(t, f.session.Responses(), 1, "interaction after shutdown is dropped")
}

func TestRouter_InteractionsRacingShutdown(t *testing.T) {
	f := newRouterFixture(t)
	f.quotes.list = func(context.Context) ([]domain.Source, error) {
		return []domain.Source{{Name: "Nix", Slug: "ew-nix"}}, nil
	}

	const senders = 50

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)

	for range senders {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start
			f.router.HandleInteraction(nil, discordtest.CommandInteraction(CommandListCharacters, ""))
		}()
	}

	wg.Add(1)

	go func() {
		defer wg.Done()
		<-start

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		assert.NoError(t, f.router.Shutdown(ctx))
	}()

	close(start)
	wg.Wait()

	// Accepted interactions are tracked by the first Shutdown or this one.
	require.NoError(t, f.router.Shutdown(context.Background()))

	accepted := int(f.quotes.calls.Load())
	assert.Len(t, f.session.Responses(), accepted, "every accepted interaction is answered")
	assert.LessOrEqual(t, accepted, senders)

	f.router.HandleInteraction(nil, discordtest.CommandInteraction(CommandListCharacters, ""))
	assert.Equal(t, int32(accepted), f.quotes.calls.Load(), "closed router accepts nothing")
}

func TestRouter_AllowedMentionsDisabled(t *testing.T) {
	f := newRouterFixture(t)
	f.quotes.quote = func(context.Context, string) (*domain.Quote, error) {
		return &domain.Quote{Text: "@everyone look", Source: domain.Source{Name: "Nix"}}, nil
	}

	f.handle(t, discordtest.CommandInteraction(CommandRandomQuote, ""))

	mentions := f.onlyResponse(t).Data.AllowedMentions
	require.NotNil(t, mentions)
	assert.Empty(t, mentions.Parse)
}
