package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/ewbot/internal/adapters/clients"
	"github.com/jsamuelsen/ewbot/internal/platform/config"
	"github.com/jsamuelsen/ewbot/internal/platform/requestid"
)

// testClientConfig returns a minimal quote-service client config for integration testing.
func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "quote-service",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 2,
		},
	}
}

// TestClient_RetryBehavior_TransientFailures verifies that the client
// retries on transient server failures and eventually succeeds.
func TestClient_RetryBehavior_TransientFailures(t *testing.T) {
	var attempts int32

	// Server fails twice, then succeeds
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		count := atomic.AddInt32(&attempts, 1)
		if count <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte(`{"sentence":"ok"}`))
	}))
	defer server.Close()

	client, err := clients.New(testClientConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/api/groups/ew/generate_sentence/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "expected 3 attempts (2 failures + 1 success)")
}

// TestClient_LastServerErrorIsReturned verifies the final 5xx response reaches
// the caller so its error payload can be read.
func TestClient_LastServerErrorIsReturned(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"markov chain exhausted"}`))
	}))
	defer server.Close()

	client, err := clients.New(testClientConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/api/groups/ew/generate_sentence/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

// TestClient_CircuitBreaker_StateTransitions verifies the circuit breaker
// transitions through all states correctly.
func TestClient_CircuitBreaker_StateTransitions(t *testing.T) {
	var calls int32

	var shouldFail atomic.Bool
	shouldFail.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)

		if shouldFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.Retry.MaxAttempts = 1
	cfg.Circuit.MaxFailures = 2
	cfg.Circuit.Timeout = 50 * time.Millisecond

	client, err := clients.New(cfg)
	require.NoError(t, err)

	get := func() (*http.Response, error) {
		return client.Get(context.Background(), "/api/sources/?group=ew")
	}

	// Closed: failures accumulate
	assert.Equal(t, clients.StateClosed, client.CircuitState())

	resp, err := get()
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, clients.StateClosed, client.CircuitState())

	resp, err = get()
	require.NoError(t, err)
	resp.Body.Close()

	// Open after 2 server errors
	assert.Equal(t, clients.StateOpen, client.CircuitState())

	callsBefore := atomic.LoadInt32(&calls)
	_, err = get()
	require.ErrorIs(t, err, clients.ErrCircuitOpen)
	assert.Equal(t, callsBefore, atomic.LoadInt32(&calls), "no server call when circuit is open")

	// Half-open after the timeout; two successes close it again
	time.Sleep(60 * time.Millisecond)
	shouldFail.Store(false)

	for range 2 {
		resp, err = get()
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, clients.StateClosed, client.CircuitState())
}

// TestClient_Timeout_SlowResponse verifies the client times out
// when the server responds slowly.
func TestClient_Timeout_SlowResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.Retry.MaxAttempts = 1

	client, err := clients.New(cfg)
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Get(context.Background(), "/api/groups/ew/get_random_quote/")
	elapsed := time.Since(start)

	require.ErrorIs(t, err, clients.ErrMaxRetriesExceeded)
	assert.Less(t, elapsed, 300*time.Millisecond, "should timeout quickly")
}

// TestClient_ConcurrentRequests_SharedClient verifies one client serves
// concurrent commands, as the bot does with one goroutine per interaction.
func TestClient_ConcurrentRequests_SharedClient(t *testing.T) {
	var totalCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&totalCalls, 1)
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := clients.New(testClientConfig(server.URL))
	require.NoError(t, err)

	const numGoroutines = 20

	var (
		wg           sync.WaitGroup
		successCount int32
	)

	for range numGoroutines {
		wg.Add(1)

		go func() {
			defer wg.Done()

			resp, err := client.Get(context.Background(), "/api/groups/ew/get_random_quote/")
			if err != nil {
				return
			}

			resp.Body.Close()
			atomic.AddInt32(&successCount, 1)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(numGoroutines), atomic.LoadInt32(&successCount), "all concurrent requests should succeed")
	assert.Equal(t, int32(numGoroutines), atomic.LoadInt32(&totalCalls), "server should receive all calls")
	assert.Equal(t, clients.StateClosed, client.CircuitState())
}

// TestClient_RateLimit_SpreadsBursts verifies requests beyond the burst wait
// for the limiter instead of failing.
func TestClient_RateLimit_SpreadsBursts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 20, Burst: 2}

	client, err := clients.New(cfg)
	require.NoError(t, err)

	start := time.Now()

	for range 4 {
		resp, err := client.Get(context.Background(), "/api/sources/?group=ew")
		require.NoError(t, err)
		resp.Body.Close()
	}

	// Two requests ride the burst; the other two wait ~50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

// TestClient_RateLimit_ContextExpires verifies a caller whose deadline ends
// while waiting for the limiter gets ErrRateLimited and no request is sent.
func TestClient_RateLimit_ContextExpires(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1}

	client, err := clients.New(cfg)
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/api/sources/?group=ew")
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Get(ctx, "/api/sources/?group=ew")
	require.ErrorIs(t, err, clients.ErrRateLimited)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, clients.StateClosed, client.CircuitState(), "throttling is not a downstream failure")
}

// TestClient_HeaderPropagation_Integration verifies the token, user agent
// and request ID reach the quote service.
func TestClient_HeaderPropagation_Integration(t *testing.T) {
	var received http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.AuthFunc = clients.TokenAuth("qs-secret")
	cfg.UserAgent = "ewbot/1.2.3"

	client, err := clients.New(cfg)
	require.NoError(t, err)

	ctx := requestid.WithID(context.Background(), "1234567890")

	resp, err := client.Get(ctx, "/api/sources/?group=ew")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Token qs-secret", received.Get("Authorization"))
	assert.Equal(t, "ewbot/1.2.3", received.Get("User-Agent"))
	assert.Equal(t, "1234567890", received.Get(requestid.Header))
	assert.Equal(t, "application/json", received.Get("Accept"))
}

// TestClient_ContextCancellation_Integration verifies that requests
// are properly cancelled when the context is cancelled.
func TestClient_ContextCancellation_Integration(t *testing.T) {
	requestStarted := make(chan struct{})
	requestCompleted := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		close(requestStarted)
		<-r.Context().Done()
		close(requestCompleted)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.Timeout = 5 * time.Second

	client, err := clients.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-requestStarted
		cancel()
	}()

	start := time.Now()
	_, err = client.Get(ctx, "/api/groups/ew/generate_sentence/")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, time.Second, "cancellation should be prompt")
	assert.Equal(t, clients.StateClosed, client.CircuitState(), "cancellation is not a downstream failure")

	select {
	case <-requestCompleted:
	case <-time.After(time.Second):
		t.Fatal("server did not receive cancellation")
	}
}
