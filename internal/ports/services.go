// Package ports defines interfaces for the bot's external dependencies.
// The application layer depends on these contracts; adapters implement them.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never quote-service DTOs
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/ewbot/internal/domain"
)

// QuoteClient is the contract for the remote quote service.
// Group-scoped calls take the group name ("ew"); source-scoped calls take a
// full slug ("ew-nix").
type QuoteClient interface {
	// ListSources returns every source in a group.
	ListSources(ctx context.Context, group string) ([]domain.Source, error)

	// GroupRandomQuote returns a random quote from any source in the group.
	GroupRandomQuote(ctx context.Context, group string) (*domain.Quote, error)

	// SourceRandomQuote returns a random quote from one source.
	// Returns domain.ErrNotFound if the slug is unknown.
	SourceRandomQuote(ctx context.Context, slug string) (*domain.Quote, error)

	// GroupSentence generates a sentence from the group's quotes.
	GroupSentence(ctx context.Context, group string) (*domain.Sentence, error)

	// SourceSentence generates a sentence from one source's quotes.
	// Returns domain.ErrNotFound if the slug is unknown.
	SourceSentence(ctx context.Context, slug string) (*domain.Sentence, error)
}

// Cache defines the contract for caching operations.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache.
	// A TTL of 0 uses the cache's default expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
