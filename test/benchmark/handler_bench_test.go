package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/ewbot/internal/adapters/discord"
	"github.com/jsamuelsen/ewbot/internal/adapters/http/handlers"
	"github.com/jsamuelsen/ewbot/internal/adapters/http/middleware"
	"github.com/jsamuelsen/ewbot/internal/domain"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// setupHealthHandler creates a HealthHandler with a minimal registry for benchmarking.
func setupHealthHandler(checkers ...ports.HealthChecker) *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	for _, checker := range checkers {
		_ = registry.Register(checker)
	}

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2026-01-01T00:00:00Z")
	return handlers.NewHealthHandler(registry, buildInfo, prometheus.NewRegistry())
}

// BenchmarkLivenessHandler measures the liveness endpoint, which probes hit
// every few seconds.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with the bot's two
// dependencies registered.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	handler := setupHealthHandler(
		&simpleHealthChecker{name: "quote-service"},
		&simpleHealthChecker{name: "discord-gateway"},
	)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkBuildInfoHandler measures the performance of the build info endpoint.
func BenchmarkBuildInfoHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/build", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.BuildInfoHandler(c)
	}
}

// BenchmarkMiddlewareChain_Ops measures the middleware stack in front of the
// ops endpoints.
func BenchmarkMiddlewareChain_Ops(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.Logging("/-/live"))

	admin := router.Group("/-/admin", middleware.RequireToken("admin-token"))
	admin.GET("/maintenance", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/-/admin/maintenance", http.NoBody)
	req.Header.Set("Authorization", "Token admin-token")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// BenchmarkPresenter_Characters measures rendering a large character list,
// including truncation to the message limit.
func BenchmarkPresenter_Characters(b *testing.B) {
	p := discord.NewPresenter("ew")

	sources := make([]domain.Source, 200)
	for i := range sources {
		sources[i] = domain.Source{
			Name: fmt.Sprintf("Character %d", i),
			Slug: fmt.Sprintf("ew-character-%d", i),
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = p.Characters(sources)
	}
}

// BenchmarkPresenter_Quote measures rendering a cited quote.
func BenchmarkPresenter_Quote(b *testing.B) {
	p := discord.NewPresenter("ew")
	citation := "Episode 1"
	citationURL := "https://example.com/ep1"

	q := &domain.Quote{
		Text:        strings.Repeat("Words. ", 40),
		Source:      domain.Source{Name: "Nix", Slug: "ew-nix"},
		Citation:    &citation,
		CitationURL: &citationURL,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = p.Quote(q)
	}
}

// BenchmarkPresenter_QuoteError measures mapping a remote not-found error.
func BenchmarkPresenter_QuoteError(b *testing.B) {
	p := discord.NewPresenter("ew")
	err := domain.NewRemoteError(http.StatusNotFound, "No source with slug ew-zed", domain.NewNotFoundError("source", "ew-zed"))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = p.QuoteError(err, "Zed")
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
