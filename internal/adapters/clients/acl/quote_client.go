package acl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/jsamuelsen/ewbot/internal/adapters/clients"
	"github.com/jsamuelsen/ewbot/internal/domain"
	"github.com/jsamuelsen/ewbot/internal/platform/logging"
)

const defaultServiceName = "quote-service"

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// Its BaseURL should point at the quote service root.
	Client *clients.Client

	// Group is listed by the health check.
	Group string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteClient against the quote service REST API.
type QuoteClient struct {
	BaseAdapter

	group  string
	logger *slog.Logger
}

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceName := cfg.Client.ServiceName()
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, serviceName),
		group:       cfg.Group,
		logger:      logger,
	}
}

// sourceDTO is a character as the quote service reports it.
type sourceDTO struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type quoteDTO struct {
	Quote       *string    `json:"quote"`
	Citation    *string    `json:"citation"`
	CitationURL *string    `json:"citation_url"`
	Source      *sourceDTO `json:"source"`
}

type sentenceDTO struct {
	Sentence *string `json:"sentence"`
}

// ListSources returns every source in a group.
// Implements ports.QuoteClient.
func (c *QuoteClient) ListSources(ctx context.Context, group string) ([]domain.Source, error) {
	path := "/api/sources/?" + url.Values{"group": {group}, "format": {"json"}}.Encode()

	body, err := c.fetch(ctx, path, "list sources", group)
	if err != nil {
		return nil, err
	}

	dtos, err := DecodeResponse[[]sourceDTO](body)
	if err != nil {
		return nil, c.malformed("list sources", err)
	}

	sources, err := TranslateSlice(*dtos, translateSource)
	if err != nil {
		return nil, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated sources",
		slog.String("group", group),
		slog.Int("count", len(sources)))

	return sources, nil
}

// GroupRandomQuote returns a random quote from any source in the group.
// Implements ports.QuoteClient.
func (c *QuoteClient) GroupRandomQuote(ctx context.Context, group string) (*domain.Quote, error) {
	return c.randomQuote(ctx, "/api/groups/"+url.PathEscape(group)+"/get_random_quote/", group)
}

// SourceRandomQuote returns a random quote from one source.
// Implements ports.QuoteClient.
func (c *QuoteClient) SourceRandomQuote(ctx context.Context, slug string) (*domain.Quote, error) {
	return c.randomQuote(ctx, "/api/sources/"+url.PathEscape(slug)+"/get_random_quote/", slug)
}

// GroupSentence generates a sentence from the group's quotes.
// Implements ports.QuoteClient.
func (c *QuoteClient) GroupSentence(ctx context.Context, group string) (*domain.Sentence, error) {
	return c.sentence(ctx, "/api/groups/"+url.PathEscape(group)+"/generate_sentence/", group)
}

// SourceSentence generates a sentence from one source's quotes.
// Implements ports.QuoteClient.
func (c *QuoteClient) SourceSentence(ctx context.Context, slug string) (*domain.Sentence, error) {
	return c.sentence(ctx, "/api/sources/"+url.PathEscape(slug)+"/generate_sentence/", slug)
}

func (c *QuoteClient) randomQuote(ctx context.Context, path, entityID string) (*domain.Quote, error) {
	body, err := c.fetch(ctx, path, "get random quote", entityID)
	if err != nil {
		return nil, err
	}

	dto, err := DecodeResponse[quoteDTO](body)
	if err != nil {
		return nil, c.malformed("get random quote", err)
	}

	return translateQuote(dto)
}

func (c *QuoteClient) sentence(ctx context.Context, path, entityID string) (*domain.Sentence, error) {
	body, err := c.fetch(ctx, path, "generate sentence", entityID)
	if err != nil {
		return nil, err
	}

	dto, err := DecodeResponse[sentenceDTO](body)
	if err != nil {
		return nil, c.malformed("generate sentence", err)
	}

	text, err := RequireString(dto.Sentence, "sentence")
	if err != nil {
		return nil, err
	}

	return &domain.Sentence{Text: text}, nil
}

func (c *QuoteClient) fetch(ctx context.Context, path, operation, entityID string) (io.ReadCloser, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := c.Get(ctx, path, operation, entityID)
	if err != nil {
		c.logger.DebugContext(ctx, "quote service call failed",
			slog.String("operation", operation),
			slog.String("entity", entityID),
			slog.String("error", err.Error()))

		return nil, err
	}

	return body, nil
}

// malformed reports a 200 response whose body could not be decoded.
func (c *QuoteClient) malformed(operation string, err error) error {
	return domain.NewUnavailableError(c.ServiceName(), fmt.Sprintf("%s: %v", operation, err))
}

func translateSource(ext *sourceDTO) (*domain.Source, error) {
	name, err := RequireString(ext.Name, "name")
	if err != nil {
		return nil, err
	}

	slug, err := RequireString(ext.Slug, "slug")
	if err != nil {
		return nil, err
	}

	return &domain.Source{Name: name, Slug: slug}, nil
}

func translateQuote(ext *quoteDTO) (*domain.Quote, error) {
	text, err := RequireString(ext.Quote, "quote")
	if err != nil {
		return nil, err
	}

	if ext.Source == nil {
		return nil, domain.NewValidationError("source", "is required")
	}

	name, err := RequireString(ext.Source.Name, "source.name")
	if err != nil {
		return nil, err
	}

	var slug string
	if ext.Source.Slug != nil {
		slug = *ext.Source.Slug
	}

	return &domain.Quote{
		Text:        text,
		Citation:    ext.Citation,
		CitationURL: ext.CitationURL,
		Source:      domain.Source{Name: name, Slug: slug},
	}, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check fails fast while the circuit is open, otherwise lists the configured
// group. Implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	if snap := c.Client().CircuitSnapshot(); snap.State == clients.StateOpen {
		return fmt.Errorf("%w: last failure at %s",
			clients.ErrCircuitOpen, snap.LastFailure.Format(time.RFC3339))
	}

	if c.group == "" {
		return errors.New("no group configured")
	}

	_, err := c.ListSources(ctx, c.group)

	return err
}
