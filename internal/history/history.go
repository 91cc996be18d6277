// Package history maintains the recently-played and recently-added logs:
// capped, most-recent-first, one entry per media id.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tunedeck/internal/core"
	"tunedeck/internal/storage"
)

// Log names one of the two history logs.
type Log string

const (
	LogPlayed Log = "played"
	LogAdded  Log = "added"
)

// Tracker owns both history logs. Recording an already-present media id
// removes the old entry and prepends a fresh one, so a log never holds two
// entries for the same media and never grows past its limit.
//
// Tracker is not safe for concurrent use; callers serialize access.
type Tracker struct {
	gateway *storage.Gateway
	logger  *zap.Logger
	limit   int

	played []core.Track
	added  []core.Track
}

func NewTracker(gateway *storage.Gateway, limit int, logger *zap.Logger) *Tracker {
	if limit <= 0 {
		limit = 200
	}
	return &Tracker{
		gateway: gateway,
		logger:  logger,
		limit:   limit,
	}
}

// Load populates both logs from the gateway. Called once at startup.
func (t *Tracker) Load(ctx context.Context) {
	t.played = t.gateway.LoadRecentlyPlayed(ctx)
	t.added = t.gateway.LoadRecentlyAdded(ctx)

	t.logger.Info("History loaded",
		zap.Int("played", len(t.played)),
		zap.Int("added", len(t.added)))
}

// Record prepends track to the named log with a freshly minted entry id,
// dropping any older entry with the same media id, and persists the log.
func (t *Tracker) Record(log Log, track core.Track) {
	entries := t.entries(log)

	kept := make([]core.Track, 0, len(entries)+1)
	entry := track
	entry.ID = fmt.Sprintf("recent-%s-%s", log, uuid.NewString())
	kept = append(kept, entry)

	for _, e := range entries {
		if e.MediaID == track.MediaID {
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) > t.limit {
		kept = kept[:t.limit]
	}

	t.setEntries(log, kept)
	t.persist(log)

	t.logger.Debug("Recorded history entry",
		zap.String("log", string(log)),
		zap.String("mediaID", track.MediaID),
		zap.String("title", track.Title))
}

// RemoveMedia drops every entry with the given media id from both logs and
// persists the logs that changed. Part of the delete-everywhere operation.
func (t *Tracker) RemoveMedia(mediaID string) {
	for _, log := range []Log{LogPlayed, LogAdded} {
		entries := t.entries(log)
		kept := entries[:0:0]
		for _, e := range entries {
			if e.MediaID != mediaID {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(entries) {
			continue
		}
		t.setEntries(log, kept)
		t.persist(log)
	}
}

// RecentlyPlayed returns the played log, most recent first.
func (t *Tracker) RecentlyPlayed() []core.Track {
	return t.played
}

// RecentlyAdded returns the added log, most recent first.
func (t *Tracker) RecentlyAdded() []core.Track {
	return t.added
}

// Size returns the combined length of both logs.
func (t *Tracker) Size() int {
	return len(t.played) + len(t.added)
}

func (t *Tracker) entries(log Log) []core.Track {
	if log == LogPlayed {
		return t.played
	}
	return t.added
}

func (t *Tracker) setEntries(log Log, entries []core.Track) {
	if log == LogPlayed {
		t.played = entries
	} else {
		t.added = entries
	}
}

func (t *Tracker) persist(log Log) {
	if log == LogPlayed {
		t.gateway.SaveRecentlyPlayed(t.played)
	} else {
		t.gateway.SaveRecentlyAdded(t.added)
	}
}
