// Package search manages a query session against the remote media index:
// cursor pagination, incremental page accumulation, and protection against
// out-of-order responses.
package search

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tunedeck/internal/core"
)

// Session accumulates pages of search results for the current query. Every
// request carries a monotonically increasing sequence number; a response
// that is no longer the latest issued request is dropped, so a slow page
// can never overwrite the results of a newer query.
type Session struct {
	client core.RemoteClient
	logger *zap.Logger

	mu            sync.Mutex
	seq           uint64
	query         string
	results       []core.SearchResult
	nextPageToken string
	loading       bool
}

func NewSession(client core.RemoteClient, logger *zap.Logger) *Session {
	return &Session{
		client: client,
		logger: logger,
	}
}

// Search issues a query. An empty pageToken starts a fresh query whose
// response replaces the accumulated results; a non-empty token continues the
// current query and appends. An empty or whitespace query clears the session
// synchronously without a remote call; the clear advances the sequence so an
// in-flight response cannot repopulate the cleared results.
func (s *Session) Search(ctx context.Context, query, pageToken string) {
	if strings.TrimSpace(query) == "" {
		s.mu.Lock()
		s.seq++
		s.query = ""
		s.results = nil
		s.nextPageToken = ""
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.query = query
	s.loading = true
	s.mu.Unlock()

	page, err := s.client.Search(ctx, query, pageToken)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.logger.Debug("Dropping stale search response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.seq),
			zap.String("query", query))
		return
	}
	s.loading = false

	fresh := pageToken == ""

	if err != nil {
		s.logger.Warn("Search request failed",
			zap.String("query", query),
			zap.Error(err))
		if fresh {
			s.results = []core.SearchResult{}
			s.nextPageToken = ""
		}
		return
	}

	if fresh {
		s.results = page.Results
	} else {
		s.results = append(s.results, page.Results...)
	}
	s.nextPageToken = page.NextPageToken

	s.logger.Debug("Search page applied",
		zap.String("query", query),
		zap.Bool("fresh", fresh),
		zap.Int("pageResults", len(page.Results)),
		zap.Int("totalResults", len(s.results)),
		zap.Bool("hasMore", s.nextPageToken != ""))
}

// NextPage continues the current query from the stored page token. No-op
// when pagination is exhausted.
func (s *Session) NextPage(ctx context.Context) {
	s.mu.Lock()
	query, token := s.query, s.nextPageToken
	s.mu.Unlock()

	if token == "" {
		return
	}
	s.Search(ctx, query, token)
}

// Query returns the current query string.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the results accumulated so far.
func (s *Session) Results() []core.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SearchResult(nil), s.results...)
}

// HasMore reports whether another page can be fetched.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextPageToken != ""
}

// Loading reports whether the latest issued request is still in flight. The
// view layer uses this to avoid re-triggering; requests are not deduplicated
// here.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
