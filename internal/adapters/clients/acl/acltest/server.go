// Package acltest runs an in-memory quote service over HTTP for tests.
package acltest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// Server speaks the quote service's REST API from canned data.
// Requests without "Authorization: Token {token}" get 401.
type Server struct {
	*httptest.Server

	token    string
	requests atomic.Int64

	mu        sync.Mutex
	sources   []source
	quotes    map[string][]quote
	sentences map[string]string
	down      bool
}

type source struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type quote struct {
	Quote       string  `json:"quote"`
	Citation    *string `json:"citation"`
	CitationURL *string `json:"citation_url"`
	Source      source  `json:"source"`
}

// NewServer starts a server accepting token. Close it when done.
func NewServer(token string) *Server {
	s := &Server{
		token:     token,
		quotes:    make(map[string][]quote),
		sentences: make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sources/{$}", s.listSources)
	mux.HandleFunc("GET /api/sources/{slug}/get_random_quote/", s.sourceQuote)
	mux.HandleFunc("GET /api/sources/{slug}/generate_sentence/", s.sentence("slug"))
	mux.HandleFunc("GET /api/groups/{group}/get_random_quote/", s.groupQuote)
	mux.HandleFunc("GET /api/groups/{group}/generate_sentence/", s.sentence("group"))

	s.Server = httptest.NewServer(s.authenticate(mux))

	return s
}

// AddSource adds a character. Its quotes are served in insertion order.
func (s *Server) AddSource(name, slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources = append(s.sources, source{Name: name, Slug: slug})
}

// AddQuote adds a quote for an existing source. Empty citation fields are
// sent as null.
func (s *Server) AddQuote(slug, text, citation, citationURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, src := range s.sources {
		if src.Slug != slug {
			continue
		}

		s.quotes[slug] = append(s.quotes[slug], quote{
			Quote:       text,
			Citation:    nullable(citation),
			CitationURL: nullable(citationURL),
			Source:      src,
		})
	}
}

// SetSentence sets the generated sentence for a group or source slug.
func (s *Server) SetSentence(groupOrSlug, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sentences[groupOrSlug] = text
}

// SetDown makes every request fail with 503 while down is true.
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.down = down
}

// Requests is the number of requests received, including rejected ones.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)

		if r.Header.Get("Authorization") != "Token "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})

			return
		}

		s.mu.Lock()
		down := s.down
		s.mu.Unlock()

		if down {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "maintenance"})

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("group") + "-"

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]source, 0, len(s.sources))

	for _, src := range s.sources {
		if strings.HasPrefix(src.Slug, prefix) {
			matched = append(matched, src)
		}
	}

	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) sourceQuote(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	s.mu.Lock()
	defer s.mu.Unlock()

	quotes := s.quotes[slug]
	if len(quotes) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No source with slug " + slug})

		return
	}

	writeJSON(w, http.StatusOK, quotes[0])
}

func (s *Server) groupQuote(w http.ResponseWriter, r *http.Request) {
	prefix := r.PathValue("group") + "-"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, src := range s.sources {
		if quotes := s.quotes[src.Slug]; strings.HasPrefix(src.Slug, prefix) && len(quotes) > 0 {
			writeJSON(w, http.StatusOK, quotes[0])

			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"error": "No quotes in group"})
}

func (s *Server) sentence(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue(key)

		s.mu.Lock()
		defer s.mu.Unlock()

		text, ok := s.sentences[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "No " + key + " " + id})

			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"sentence": text})
	}
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}

	return &v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
