// Package app wires the library, history, playback and search components
// into one serialized session: the API surface a view layer talks to.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tunedeck/internal/core"
	"tunedeck/internal/history"
	"tunedeck/internal/library"
	"tunedeck/internal/playback"
	"tunedeck/internal/search"
	"tunedeck/internal/storage"
	"tunedeck/internal/store"
)

// MetricsRecorder receives operational counters. All methods must be safe
// for concurrent use; a nil recorder disables metrics.
type MetricsRecorder interface {
	RecordAdd(collection string)
	RecordDuplicate()
	RecordDelete()
	RecordPlay()
	RecordSearch(kind string)
	RecordPersistError(key string)
	RecordRemoteError(op string)
	SetLibrarySize(size int)
	SetHistorySize(size int)
}

// Session owns all core state for one process. User and system events
// (selections, adds, renderer signals, remote completions) are serialized
// under one mutex: no two mutations run in parallel, which is what the
// multi-collection delete relies on instead of transactions.
type Session struct {
	mu sync.Mutex

	logger   *zap.Logger
	metrics  MetricsRecorder
	gateway  *storage.Gateway
	library  *library.Store
	tracker  *history.Tracker
	queue    *playback.Controller
	searches *search.Session
}

// NewSession assembles a session over the given collaborators. renderer may
// be nil, in which case commands go to a logging null renderer.
func NewSession(cfg *core.Config, backend storage.Backend, remote core.RemoteClient,
	renderer core.Renderer, metrics MetricsRecorder, logger *zap.Logger) *Session {
	s := &Session{
		logger:  logger,
		metrics: metrics,
	}

	s.gateway = storage.NewGateway(backend, logger.Named("storage"))
	if metrics != nil {
		s.gateway.SetErrorHook(metrics.RecordPersistError)
	}

	index := store.NewMediaIndex(cfg.App.MediaIndexSize, 0.001)
	s.tracker = history.NewTracker(s.gateway, cfg.App.HistoryLimit, logger.Named("history"))
	s.library = library.NewStore(s.gateway, remote, s.tracker, index, logger.Named("library"))

	if renderer == nil {
		renderer = playback.NewNullRenderer(logger.Named("renderer"))
	}
	s.queue = playback.NewController(renderer, playRecorder{s}, logger.Named("playback"))

	s.searches = search.NewSession(remote, logger.Named("search"))

	return s
}

// playRecorder feeds queue transitions into the played log.
type playRecorder struct {
	s *Session
}

func (r playRecorder) RecordPlayed(track core.Track) {
	r.s.tracker.Record(history.LogPlayed, track)
	if r.s.metrics != nil {
		r.s.metrics.RecordPlay()
	}
}

// Start loads the persisted collections. Called once before any other
// operation; loads are the only persistence calls the session waits on.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Load(ctx)
	s.library.Load(ctx)
	s.updateGauges()
}

// AddToFavorites adds track to favorites. Duplicates leave the collection
// untouched and are reported for the caller to surface as a notice.
func (s *Session) AddToFavorites(track core.Track) library.AddOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.library.AddToFavorites(track)
	s.noteAdd(outcome, "favorites")
	return outcome
}

// AddToPlaylist adds track to the named playlist.
func (s *Session) AddToPlaylist(playlistID string, track core.Track) library.AddOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.library.AddToPlaylist(playlistID, track)
	s.noteAdd(outcome, "playlist")
	return outcome
}

func (s *Session) noteAdd(outcome library.AddOutcome, collection string) {
	if s.metrics != nil {
		if outcome == library.OutcomeAdded {
			s.metrics.RecordAdd(collection)
		} else {
			s.metrics.RecordDuplicate()
		}
	}
	s.updateGauges()
}

// RemoveFromFavorites removes one favorites entry by track id.
func (s *Session) RemoveFromFavorites(trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.library.RemoveFromFavorites(trackID)
	s.updateGauges()
}

// RemoveFromPlaylist removes one entry by track id from a single playlist.
func (s *Session) RemoveFromPlaylist(playlistID, trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.library.RemoveFromPlaylist(playlistID, trackID)
	s.updateGauges()
}

// DeleteEverywhere removes the media id from favorites, every playlist and
// both history logs. This is unconditional: the destructive-confirmation
// gate lives in the caller, not here.
func (s *Session) DeleteEverywhere(mediaID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.library.DeleteEverywhere(mediaID)
	if removed && s.metrics != nil {
		s.metrics.RecordDelete()
	}
	s.updateGauges()
	return removed
}

// OpenFavorites makes favorites the active playback list and returns it.
func (s *Session) OpenFavorites() []core.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks := s.library.Favorites()
	s.queue.SetActiveList(core.FavoritesSourceID, tracks)
	return tracks
}

// OpenPlaylist makes the named playlist the active playback list, fetching
// it from the remote service the first time a regular playlist is opened.
// The reserved history ids resolve to the corresponding log.
func (s *Session) OpenPlaylist(ctx context.Context, playlistID string) []core.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tracks []core.Track
	switch {
	case playlistID == core.RecentlyPlayedID:
		tracks = s.tracker.RecentlyPlayed()
	case playlistID == core.RecentlyAddedID:
		tracks = s.tracker.RecentlyAdded()
	case s.library.HasPlaylist(playlistID):
		tracks = s.library.Playlist(playlistID)
	default:
		tracks = s.library.FetchRemotePlaylist(ctx, playlistID)
		if tracks == nil && s.metrics != nil {
			s.metrics.RecordRemoteError("playlist")
		}
		s.updateGauges()
	}

	s.queue.SetActiveList(playlistID, tracks)
	return tracks
}

// RefreshPlaylist re-fetches a playlist from the remote service, replacing
// the stored copy wholesale.
func (s *Session) RefreshPlaylist(ctx context.Context, playlistID string) []core.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks := s.library.FetchRemotePlaylist(ctx, playlistID)
	if tracks == nil && s.metrics != nil {
		s.metrics.RecordRemoteError("playlist")
	}
	s.updateGauges()
	return tracks
}

// GroupedFavorites returns favorites bucketed for display.
func (s *Session) GroupedFavorites() []library.LetterGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.library.GroupedFavorites()
}

// RecentlyPlayed returns the played log, most recent first.
func (s *Session) RecentlyPlayed() []core.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.RecentlyPlayed()
}

// RecentlyAdded returns the added log, most recent first.
func (s *Session) RecentlyAdded() []core.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.RecentlyAdded()
}

// SelectTrack activates the track at index in the active list.
func (s *Session) SelectTrack(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.SelectTrack(index)
}

// Advance moves playback to the next track.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Advance()
}

// Retreat moves playback to the previous track.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Retreat()
}

// TogglePlay flips play/pause for the current track.
func (s *Session) TogglePlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.TogglePlay()
}

// ToggleShuffle flips the shuffle flag.
func (s *Session) ToggleShuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.ToggleShuffle()
}

// CycleRepeat steps the repeat mode.
func (s *Session) CycleRepeat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.CycleRepeat()
}

// HandleRendererState forwards a renderer signal into the queue; the ended
// signal advances playback.
func (s *Session) HandleRendererState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.HandleRendererState(state)
}

// Queue exposes the playback controller for read access. Mutations must go
// through the session so they stay serialized.
func (s *Session) Queue() *playback.Controller {
	return s.queue
}

// Search issues a fresh query on the search session. Empty queries clear
// results without a remote call.
func (s *Session) Search(ctx context.Context, query string) {
	if s.metrics != nil {
		s.metrics.RecordSearch("fresh")
	}
	s.searches.Search(ctx, query, "")
}

// NextSearchPage continues the current query's pagination.
func (s *Session) NextSearchPage(ctx context.Context) {
	if !s.searches.HasMore() {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordSearch("page")
	}
	s.searches.NextPage(ctx)
}

// SearchResults returns the results accumulated for the current query.
func (s *Session) SearchResults() []core.SearchResult {
	return s.searches.Results()
}

// SearchSession exposes the search session for read access.
func (s *Session) SearchSession() *search.Session {
	return s.searches
}

// Flush drains pending persistence writes. Tests use this to assert final
// persisted state without racing the write-behind queue.
func (s *Session) Flush() {
	s.gateway.Flush()
}

// Close flushes and releases the storage backend.
func (s *Session) Close() error {
	return s.gateway.Close()
}

func (s *Session) updateGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetLibrarySize(s.library.Size())
	s.metrics.SetHistorySize(s.tracker.Size())
}
