package discord

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/ewbot/internal/domain"
	"github.com/jsamuelsen/ewbot/internal/platform/logging"
	"github.com/jsamuelsen/ewbot/internal/platform/requestid"
	"github.com/jsamuelsen/ewbot/internal/platform/telemetry"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

const defaultCommandTimeout = 30 * time.Second

// QuoteUseCases is what the router needs from the application layer.
// A character of "" means the whole group.
type QuoteUseCases interface {
	ListCharacters(ctx context.Context) ([]domain.Source, error)
	RandomQuote(ctx context.Context, character string) (*domain.Quote, error)
	GenerateSentence(ctx context.Context, character string) (*domain.Sentence, error)
}

// RouterConfig contains the router's dependencies.
type RouterConfig struct {
	Session   Session
	Quotes    QuoteUseCases
	Flags     ports.FeatureFlags
	Presenter *Presenter
	Metrics   *telemetry.CommandMetrics
	Logger    *slog.Logger

	// CommandTimeout bounds one command. Defaults to 30s.
	CommandTimeout time.Duration

	// DeferAfter acknowledges slow commands with a deferred reply. Zero never defers.
	DeferAfter time.Duration
}

// commandHandler runs one command. The error is for tracing only; the reply
// already describes it to the user.
type commandHandler func(ctx context.Context, data discordgo.ApplicationCommandInteractionData) (Reply, error)

// Router dispatches slash-command interactions. Each interaction runs in its
// own goroutine; Shutdown waits for in-flight commands.
type Router struct {
	session   Session
	quotes    QuoteUseCases
	flags     ports.FeatureFlags
	presenter *Presenter
	metrics   *telemetry.CommandMetrics
	logger    *slog.Logger

	commandTimeout time.Duration
	deferAfter     time.Duration

	handlers map[string]commandHandler

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// mu orders wg.Add against Shutdown so no Add follows Wait.
	mu     sync.Mutex
	closed bool
}

// NewRouter creates a router. Panics if Session, Quotes, Flags or Presenter is nil.
func NewRouter(cfg RouterConfig) *Router {
	switch {
	case cfg.Session == nil:
		panic("Router: Session is required")
	case cfg.Quotes == nil:
		panic("Router: Quotes is required")
	case cfg.Flags == nil:
		panic("Router: Flags is required")
	case cfg.Presenter == nil:
		panic("Router: Presenter is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.CommandTimeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &Router{
		session:        cfg.Session,
		quotes:         cfg.Quotes,
		flags:          cfg.Flags,
		presenter:      cfg.Presenter,
		metrics:        cfg.Metrics,
		logger:         logger.With(slog.String("component", "discord.Router")),
		commandTimeout: timeout,
		deferAfter:     cfg.DeferAfter,
		baseCtx:        ctx,
		cancel:         cancel,
	}

	r.handlers = map[string]commandHandler{
		CommandListCharacters:   r.listCharacters,
		CommandRandomQuote:      r.randomQuote,
		CommandGenerateSentence: r.generateSentence,
	}

	return r
}

// HandleInteraction is the discordgo InteractionCreate handler.
// Non-command interactions are ignored.
func (r *Router) HandleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("dropping interaction received during shutdown", slog.String("interaction_id", i.ID))

		return
	}

	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("interaction dispatch panicked",
					slog.String("interaction_id", i.ID),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
			}
		}()

		r.dispatch(i.Interaction)
	}()
}

// Shutdown stops accepting interactions and waits for in-flight commands.
// When ctx expires first, running commands are cancelled and ctx.Err() is returned.
func (r *Router) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()

		return nil
	case <-ctx.Done():
		r.cancel()

		return fmt.Errorf("waiting for in-flight commands: %w", ctx.Err())
	}
}

func (r *Router) dispatch(i *discordgo.Interaction) {
	start := time.Now()
	data := i.ApplicationCommandData()

	id := i.ID
	if id == "" {
		id = requestid.New()
	}

	logger := r.logger.With(
		slog.String("request_id", id),
		slog.String("command", data.Name),
		slog.String("guild_id", i.GuildID),
		slog.String("user_id", invokingUserID(i)),
	)

	ctx, cancel := context.WithTimeout(r.baseCtx, r.commandTimeout)
	defer cancel()

	ctx = requestid.WithID(ctx, id)
	ctx = logging.WithContext(ctx, logger)

	ctx, span := telemetry.Tracer().Start(ctx, "discord.command "+data.Name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("discord.command", data.Name),
			attribute.String("discord.interaction_id", id),
			attribute.String("discord.guild_id", i.GuildID),
		),
	)
	defer span.End()

	logger.Log(ctx, logging.LevelTrace, "interaction received")

	reply, deferred := r.execute(ctx, i, data, span)

	if err := r.deliver(i, reply, deferred); err != nil {
		logger.ErrorContext(ctx, "failed to send reply", slog.Any("error", err))
		span.RecordError(err)
	}

	elapsed := time.Since(start)

	span.SetAttributes(attribute.String("discord.outcome", reply.Outcome))
	r.metrics.ObserveCommand(data.Name, reply.Outcome, elapsed)

	logger.InfoContext(ctx, "command handled",
		slog.String("outcome", reply.Outcome),
		slog.Bool("deferred", deferred),
		slog.Duration("duration", elapsed))
}

// execute produces the reply. Maintenance and unknown commands answer at once;
// real commands run in a goroutine so a slow one can be deferred.
func (r *Router) execute(
	ctx context.Context,
	i *discordgo.Interaction,
	data discordgo.ApplicationCommandInteractionData,
	span trace.Span,
) (reply Reply, deferred bool) {
	if r.flags.IsEnabled(ctx, ports.FlagMaintenanceMode, false) {
		return r.presenter.Maintenance(), false
	}

	handler, ok := r.handlers[data.Name]
	if !ok {
		logging.FromContext(ctx).WarnContext(ctx, "unknown command")

		return r.presenter.UnknownCommand(), false
	}

	results := make(chan Reply, 1)

	go func() {
		results <- r.run(ctx, handler, data, span)
	}()

	if r.deferAfter <= 0 {
		return <-results, false
	}

	timer := time.NewTimer(r.deferAfter)
	defer timer.Stop()

	select {
	case reply = <-results:
		return reply, false
	case <-timer.C:
	}

	if err := r.acknowledge(i); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "failed to defer reply", slog.Any("error", err))
		span.RecordError(err)

		return <-results, false
	}

	return <-results, true
}

// run calls the handler, turning a panic into the generic failure reply.
func (r *Router) run(
	ctx context.Context,
	handler commandHandler,
	data discordgo.ApplicationCommandInteractionData,
	span trace.Span,
) (reply Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "command panicked",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))

			span.SetStatus(codes.Error, "panic")

			reply = Reply{Content: MsgGenericFailure, Outcome: telemetry.OutcomeError}
		}
	}()

	reply, err := handler(ctx, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return reply
}

func (r *Router) listCharacters(ctx context.Context, _ discordgo.ApplicationCommandInteractionData) (Reply, error) {
	sources, err := r.quotes.ListCharacters(ctx)
	if err != nil {
		return r.presenter.CharactersError(err), err
	}

	return r.presenter.Characters(sources), nil
}

func (r *Router) randomQuote(ctx context.Context, data discordgo.ApplicationCommandInteractionData) (Reply, error) {
	character := characterOption(data)

	quote, err := r.quotes.RandomQuote(ctx, character)
	if err != nil {
		return r.presenter.QuoteError(err, character), err
	}

	return r.presenter.Quote(quote), nil
}

func (r *Router) generateSentence(ctx context.Context, data discordgo.ApplicationCommandInteractionData) (Reply, error) {
	character := characterOption(data)

	sentence, err := r.quotes.GenerateSentence(ctx, character)
	if err != nil {
		return r.presenter.SentenceError(err, character), err
	}

	return r.presenter.Sentence(sentence, character), nil
}

// noMentions stops quote text from pinging users or roles.
var noMentions = &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}

func (r *Router) acknowledge(i *discordgo.Interaction) error {
	return r.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (r *Router) deliver(i *discordgo.Interaction, reply Reply, deferred bool) error {
	if deferred {
		content := reply.Content

		_, err := r.session.InteractionResponseEdit(i, &discordgo.WebhookEdit{
			Content:         &content,
			AllowedMentions: noMentions,
		})

		return err
	}

	data := &discordgo.InteractionResponseData{
		Content:         reply.Content,
		AllowedMentions: noMentions,
	}

	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := r.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("responding to interaction: %w", err)
	}

	return nil
}

func invokingUserID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}
