package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"tunedeck/internal/core"
)

// Persistence keys for the four logical collections.
const (
	KeyFavorites      = "favoriteTracks"
	KeyRecentlyPlayed = "recentlyPlayed"
	KeyRecentlyAdded  = "recentlyAdded"
	KeyPlaylists      = "customPlaylists"
)

const saveTimeout = 10 * time.Second

type saveOp struct {
	key   string
	value []byte
}

// Gateway wraps a Backend with typed load/save for the four collections.
// Saves are write-behind: callers enqueue and return immediately, a single
// worker applies writes in issue order, and failures are logged and
// swallowed. Flush drains the queue so tests can assert persisted state.
type Gateway struct {
	backend Backend
	logger  *zap.Logger
	queue   chan saveOp
	pending sync.WaitGroup
	done    chan struct{}
	once    sync.Once

	// onError, when set, is invoked with the failed key after a save error
	// has been logged. Used to feed metrics.
	onError func(key string)
}

func NewGateway(backend Backend, logger *zap.Logger) *Gateway {
	g := &Gateway{
		backend: backend,
		logger:  logger,
		queue:   make(chan saveOp, 64),
		done:    make(chan struct{}),
	}
	go g.runWriter()
	return g
}

// SetErrorHook registers a callback for failed saves. Must be called before
// the first save.
func (g *Gateway) SetErrorHook(hook func(key string)) {
	g.onError = hook
}

func (g *Gateway) runWriter() {
	defer close(g.done)
	for op := range g.queue {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := g.backend.Save(ctx, op.key, op.value)
		cancel()
		if err != nil {
			g.logger.Warn("Failed to persist collection, keeping in-memory state",
				zap.String("key", op.key),
				zap.Error(err))
			if g.onError != nil {
				g.onError(op.key)
			}
		}
		g.pending.Done()
	}
}

func (g *Gateway) enqueue(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		g.logger.Error("Failed to encode collection",
			zap.String("key", key),
			zap.Error(err))
		if g.onError != nil {
			g.onError(key)
		}
		return
	}

	g.pending.Add(1)
	g.queue <- saveOp{key: key, value: data}
}

// Flush blocks until every save issued so far has been applied.
func (g *Gateway) Flush() {
	g.pending.Wait()
}

// Close drains pending saves, stops the writer and closes the backend.
func (g *Gateway) Close() error {
	g.once.Do(func() {
		g.pending.Wait()
		close(g.queue)
		<-g.done
	})
	return g.backend.Close()
}

func (g *Gateway) loadTracks(ctx context.Context, key string) []core.Track {
	data, ok, err := g.backend.Load(ctx, key)
	if err != nil {
		g.logger.Warn("Failed to load collection, starting empty",
			zap.String("key", key),
			zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var tracks []core.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		g.logger.Warn("Failed to decode collection, starting empty",
			zap.String("key", key),
			zap.Error(err))
		return nil
	}
	return tracks
}

// LoadFavorites returns the persisted favorites sequence, or nil when absent
// or unreadable.
func (g *Gateway) LoadFavorites(ctx context.Context) []core.Track {
	return g.loadTracks(ctx, KeyFavorites)
}

func (g *Gateway) LoadRecentlyPlayed(ctx context.Context) []core.Track {
	return g.loadTracks(ctx, KeyRecentlyPlayed)
}

func (g *Gateway) LoadRecentlyAdded(ctx context.Context) []core.Track {
	return g.loadTracks(ctx, KeyRecentlyAdded)
}

// LoadPlaylists returns the persisted playlist map. The map is never nil.
func (g *Gateway) LoadPlaylists(ctx context.Context) map[string][]core.Track {
	playlists := make(map[string][]core.Track)

	data, ok, err := g.backend.Load(ctx, KeyPlaylists)
	if err != nil {
		g.logger.Warn("Failed to load playlists, starting empty", zap.Error(err))
		return playlists
	}
	if !ok {
		return playlists
	}

	if err := json.Unmarshal(data, &playlists); err != nil {
		g.logger.Warn("Failed to decode playlists, starting empty", zap.Error(err))
		return make(map[string][]core.Track)
	}
	return playlists
}

func (g *Gateway) SaveFavorites(tracks []core.Track) {
	g.enqueue(KeyFavorites, tracks)
}

func (g *Gateway) SaveRecentlyPlayed(tracks []core.Track) {
	g.enqueue(KeyRecentlyPlayed, tracks)
}

func (g *Gateway) SaveRecentlyAdded(tracks []core.Track) {
	g.enqueue(KeyRecentlyAdded, tracks)
}

func (g *Gateway) SavePlaylists(playlists map[string][]core.Track) {
	g.enqueue(KeyPlaylists, playlists)
}
