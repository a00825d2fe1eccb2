package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jsamuelsen/ewbot/internal/domain"
	"github.com/jsamuelsen/ewbot/internal/platform/logging"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

// QuoteService runs the bot's three use cases against the quote service.
// A character of "" means the whole group.
type QuoteService struct {
	quoteClient ports.QuoteClient
	cache       ports.Cache
	group       string
	sourcesTTL  time.Duration
	logger      *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	QuoteClient ports.QuoteClient

	// Group is the quote-service group every command is scoped to ("ew").
	Group string

	// Cache holds the character list. Nil disables caching.
	Cache ports.Cache

	// SourcesTTL is how long the character list is cached. Zero disables caching.
	SourcesTTL time.Duration

	Logger *slog.Logger
}

// cachedSource is the cache encoding of a domain.Source.
type cachedSource struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if QuoteClient is nil or Group is empty.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.QuoteClient == nil {
		panic("QuoteService: QuoteClient is required")
	}

	if cfg.Group == "" {
		panic("QuoteService: Group is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		quoteClient: cfg.QuoteClient,
		cache:       cfg.Cache,
		group:       cfg.Group,
		sourcesTTL:  cfg.SourcesTTL,
		logger:      logger.With(slog.String("component", "app.QuoteService")),
	}
}

// Group returns the quote-service group the service is scoped to.
func (s *QuoteService) Group() string {
	return s.group
}

// ListCharacters returns every character in the group, from cache when fresh.
func (s *QuoteService) ListCharacters(ctx context.Context) ([]domain.Source, error) {
	logger := s.loggerFor(ctx)
	key := "sources:" + s.group

	if cached, ok := s.cachedSources(ctx, key); ok {
		logger.DebugContext(ctx, "character list served from cache", slog.Int("count", len(cached)))

		return cached, nil
	}

	sources, err := s.quoteClient.ListSources(ctx, s.group)
	if err != nil {
		logger.WarnContext(ctx, "failed to list characters", slog.Any("error", err))

		return nil, err
	}

	s.storeSources(ctx, key, sources)

	logger.InfoContext(ctx, "listed characters", slog.Int("count", len(sources)))

	return sources, nil
}

// RandomQuote returns a random quote from a character, or from the whole
// group when character is empty.
func (s *QuoteService) RandomQuote(ctx context.Context, character string) (*domain.Quote, error) {
	logger := s.loggerFor(ctx).With(slog.String("character", character))

	var (
		quote *domain.Quote
		err   error
	)

	if character == "" {
		quote, err = s.quoteClient.GroupRandomQuote(ctx, s.group)
	} else {
		quote, err = s.quoteClient.SourceRandomQuote(ctx, domain.SourceSlug(s.group, character))
	}

	if err != nil {
		logger.WarnContext(ctx, "failed to fetch random quote", slog.Any("error", err))

		return nil, err
	}

	logger.InfoContext(ctx, "fetched random quote", slog.String("source", quote.Source.Slug))

	return quote, nil
}

// GenerateSentence generates a sentence in a character's voice, or from the
// whole group when character is empty.
func (s *QuoteService) GenerateSentence(ctx context.Context, character string) (*domain.Sentence, error) {
	logger := s.loggerFor(ctx).With(slog.String("character", character))

	var (
		sentence *domain.Sentence
		err      error
	)

	if character == "" {
		sentence, err = s.quoteClient.GroupSentence(ctx, s.group)
	} else {
		sentence, err = s.quoteClient.SourceSentence(ctx, domain.SourceSlug(s.group, character))
	}

	if err != nil {
		logger.WarnContext(ctx, "failed to generate sentence", slog.Any("error", err))

		return nil, err
	}

	logger.InfoContext(ctx, "generated sentence")

	return sentence, nil
}

// InvalidateCharacters drops the cached character list.
func (s *QuoteService) InvalidateCharacters(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	return s.cache.Delete(ctx, "sources:"+s.group)
}

func (s *QuoteService) cachedSources(ctx context.Context, key string) ([]domain.Source, bool) {
	if s.cache == nil || s.sourcesTTL <= 0 {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var entries []cachedSource
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "discarding unreadable cache entry", slog.Any("error", err))

		return nil, false
	}

	sources := make([]domain.Source, 0, len(entries))
	for _, e := range entries {
		sources = append(sources, domain.Source{Name: e.Name, Slug: e.Slug})
	}

	return sources, true
}

// storeSources is best effort: a cache failure never fails the command.
func (s *QuoteService) storeSources(ctx context.Context, key string, sources []domain.Source) {
	if s.cache == nil || s.sourcesTTL <= 0 {
		return
	}

	entries := make([]cachedSource, 0, len(sources))
	for _, src := range sources {
		entries = append(entries, cachedSource(src))
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, raw, s.sourcesTTL); err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "failed to cache character list", slog.Any("error", err))
	}
}

func (s *QuoteService) loggerFor(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger.With(slog.String("component", "app.QuoteService"))
	}

	return s.logger
}
