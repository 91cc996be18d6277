// Package library is the in-memory authoritative store for favorites and
// named playlists, kept in sync with the persistence gateway.
package library

import (
	"context"

	"go.uber.org/zap"

	"tunedeck/internal/core"
	"tunedeck/internal/history"
	"tunedeck/internal/storage"
	"tunedeck/internal/store"
)

// AddOutcome reports how an add operation ended. A duplicate is not an
// error: the collection is unchanged and the caller surfaces a notice.
type AddOutcome int

const (
	OutcomeAdded AddOutcome = iota
	OutcomeDuplicate
)

// Store holds favorites and the playlist map. Every mutation persists the
// affected collections through the gateway (write-behind) and keeps the
// media index current. Store is not safe for concurrent use; callers
// serialize access.
type Store struct {
	gateway *storage.Gateway
	remote  core.RemoteClient
	history *history.Tracker
	index   *store.MediaIndex
	logger  *zap.Logger

	favorites []core.Track
	playlists map[string][]core.Track
}

func NewStore(gateway *storage.Gateway, remote core.RemoteClient, tracker *history.Tracker,
	index *store.MediaIndex, logger *zap.Logger) *Store {
	return &Store{
		gateway:   gateway,
		remote:    remote,
		history:   tracker,
		index:     index,
		logger:    logger,
		playlists: make(map[string][]core.Track),
	}
}

// Load populates the store from the gateway and seeds the media index.
// Called once at startup.
func (s *Store) Load(ctx context.Context) {
	s.favorites = s.gateway.LoadFavorites(ctx)
	s.playlists = s.gateway.LoadPlaylists(ctx)
	s.rebuildIndex()

	s.logger.Info("Library loaded",
		zap.Int("favorites", len(s.favorites)),
		zap.Int("playlists", len(s.playlists)))
}

// AddToFavorites appends track to favorites unless a track with the same
// media id is already present. On success the track is also recorded in the
// recently-added log.
func (s *Store) AddToFavorites(track core.Track) AddOutcome {
	if containsMedia(s.favorites, track.MediaID) {
		s.logger.Debug("Duplicate favorite rejected",
			zap.String("mediaID", track.MediaID),
			zap.String("title", track.Title))
		return OutcomeDuplicate
	}

	s.favorites = append(s.favorites, track)
	s.index.Add(track.MediaID)
	s.gateway.SaveFavorites(s.favorites)
	s.history.Record(history.LogAdded, track)

	s.logger.Info("Added to favorites",
		zap.String("mediaID", track.MediaID),
		zap.String("title", track.Title))
	return OutcomeAdded
}

// AddToPlaylist appends track to the named playlist, creating the playlist
// entry if absent. The duplicate policy is scoped to this one playlist.
func (s *Store) AddToPlaylist(playlistID string, track core.Track) AddOutcome {
	tracks := s.playlists[playlistID]
	if containsMedia(tracks, track.MediaID) {
		s.logger.Debug("Duplicate playlist entry rejected",
			zap.String("playlistID", playlistID),
			zap.String("mediaID", track.MediaID))
		return OutcomeDuplicate
	}

	s.playlists[playlistID] = append(tracks, track)
	s.index.Add(track.MediaID)
	s.gateway.SavePlaylists(s.playlists)
	s.history.Record(history.LogAdded, track)

	s.logger.Info("Added to playlist",
		zap.String("playlistID", playlistID),
		zap.String("mediaID", track.MediaID),
		zap.String("title", track.Title))
	return OutcomeAdded
}

// RemoveFromFavorites removes the favorites entry with the given track id.
// Removal is by entry id, not media id: copies elsewhere stay untouched.
func (s *Store) RemoveFromFavorites(trackID string) {
	kept, removed := removeByID(s.favorites, trackID)
	if removed == nil {
		return
	}
	s.favorites = kept
	s.refreshIndexFor(removed.MediaID)
	s.gateway.SaveFavorites(s.favorites)

	s.logger.Info("Removed from favorites", zap.String("trackID", trackID))
}

// RemoveFromPlaylist removes one entry by track id from a single playlist.
func (s *Store) RemoveFromPlaylist(playlistID, trackID string) {
	kept, removed := removeByID(s.playlists[playlistID], trackID)
	if removed == nil {
		return
	}
	s.playlists[playlistID] = kept
	s.refreshIndexFor(removed.MediaID)
	s.gateway.SavePlaylists(s.playlists)

	s.logger.Info("Removed from playlist",
		zap.String("playlistID", playlistID),
		zap.String("trackID", trackID))
}

// DeleteEverywhere removes every track with the given media id from
// favorites, every playlist and both history logs. All in-memory state is
// updated before the persistence writes are issued; the writes themselves
// target independent keys and complete in no particular order. Returns true
// when anything was removed. The media index is advisory and may have
// evicted the id, so the outcome comes from the collection scans, never
// from the index.
func (s *Store) DeleteEverywhere(mediaID string) bool {
	inHistory := historyHasMedia(s.history, mediaID)
	removed := false

	kept, n := removeByMedia(s.favorites, mediaID)
	if n > 0 {
		s.favorites = kept
		removed = true
	}

	playlistsChanged := false
	for id, tracks := range s.playlists {
		kept, n := removeByMedia(tracks, mediaID)
		if n > 0 {
			s.playlists[id] = kept
			playlistsChanged = true
			removed = true
		}
	}

	s.index.Remove(mediaID)

	if removed {
		s.gateway.SaveFavorites(s.favorites)
		if playlistsChanged {
			s.gateway.SavePlaylists(s.playlists)
		}
	}

	s.history.RemoveMedia(mediaID)

	s.logger.Info("Deleted media from library",
		zap.String("mediaID", mediaID),
		zap.Bool("removedFromLibrary", removed),
		zap.Bool("removedFromHistory", inHistory))
	return removed || inHistory
}

// FetchRemotePlaylist replaces the playlist's contents with the remote
// service's version. Fetching the all-songs playlist also overwrites
// favorites wholesale; the remote copy is treated as the source of truth.
// On a remote failure the stored playlist is left untouched.
func (s *Store) FetchRemotePlaylist(ctx context.Context, playlistID string) []core.Track {
	tracks, err := s.remote.PlaylistTracks(ctx, playlistID)
	if err != nil {
		s.logger.Warn("Failed to fetch remote playlist",
			zap.String("playlistID", playlistID),
			zap.Error(err))
		return nil
	}
	if tracks == nil {
		tracks = []core.Track{}
	}

	s.playlists[playlistID] = tracks
	s.gateway.SavePlaylists(s.playlists)

	if playlistID == core.AllSongsID {
		s.favorites = append([]core.Track(nil), tracks...)
		s.gateway.SaveFavorites(s.favorites)
	}

	s.rebuildIndex()

	s.logger.Info("Fetched remote playlist",
		zap.String("playlistID", playlistID),
		zap.Int("tracks", len(tracks)))
	return tracks
}

// Favorites returns the favorites sequence in insertion order.
func (s *Store) Favorites() []core.Track {
	return s.favorites
}

// Playlist returns the named playlist's tracks, or nil when it has never
// been populated.
func (s *Store) Playlist(playlistID string) []core.Track {
	return s.playlists[playlistID]
}

// HasPlaylist reports whether the playlist has been populated (fetched or
// added to) at least once.
func (s *Store) HasPlaylist(playlistID string) bool {
	_, ok := s.playlists[playlistID]
	return ok
}

// Contains reports whether any library collection holds the media id. The
// index answers the common case; a miss falls back to scanning the
// collections, since the index evicts ids once over capacity.
func (s *Store) Contains(mediaID string) bool {
	if s.index.Has(mediaID) {
		return true
	}
	if containsMedia(s.favorites, mediaID) {
		return true
	}
	for _, tracks := range s.playlists {
		if containsMedia(tracks, mediaID) {
			return true
		}
	}
	return false
}

// Size returns the total number of library entries across all collections.
func (s *Store) Size() int {
	n := len(s.favorites)
	for _, tracks := range s.playlists {
		n += len(tracks)
	}
	return n
}

func (s *Store) rebuildIndex() {
	ids := make([]string, 0, len(s.favorites))
	for _, t := range s.favorites {
		ids = append(ids, t.MediaID)
	}
	for _, tracks := range s.playlists {
		for _, t := range tracks {
			ids = append(ids, t.MediaID)
		}
	}
	s.index.Reset(ids)
}

// refreshIndexFor re-derives index membership for one media id after a
// single-entry removal: the media may still exist in another collection.
func (s *Store) refreshIndexFor(mediaID string) {
	if containsMedia(s.favorites, mediaID) {
		return
	}
	for _, tracks := range s.playlists {
		if containsMedia(tracks, mediaID) {
			return
		}
	}
	s.index.Remove(mediaID)
}

func containsMedia(tracks []core.Track, mediaID string) bool {
	for _, t := range tracks {
		if t.MediaID == mediaID {
			return true
		}
	}
	return false
}

func removeByID(tracks []core.Track, trackID string) ([]core.Track, *core.Track) {
	for i, t := range tracks {
		if t.ID == trackID {
			removed := t
			return append(tracks[:i:i], tracks[i+1:]...), &removed
		}
	}
	return tracks, nil
}

func removeByMedia(tracks []core.Track, mediaID string) ([]core.Track, int) {
	kept := tracks[:0:0]
	removed := 0
	for _, t := range tracks {
		if t.MediaID == mediaID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return tracks, 0
	}
	return kept, removed
}

func historyHasMedia(tracker *history.Tracker, mediaID string) bool {
	for _, t := range tracker.RecentlyPlayed() {
		if t.MediaID == mediaID {
			return true
		}
	}
	for _, t := range tracker.RecentlyAdded() {
		if t.MediaID == mediaID {
			return true
		}
	}
	return false
}
