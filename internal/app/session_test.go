package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tunedeck/internal/core"
	"tunedeck/internal/library"
	"tunedeck/internal/storage"
)

type fakeRemote struct {
	playlists map[string][]core.Track
	pages     []*core.SearchPage
	err       error

	playlistCalls int
	searchCalls   int
}

func (f *fakeRemote) Search(context.Context, string, string) (*core.SearchPage, error) {
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return &core.SearchPage{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeRemote) PlaylistTracks(_ context.Context, playlistID string) ([]core.Track, error) {
	f.playlistCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.playlists[playlistID], nil
}

type fakeMetrics struct {
	adds         int
	duplicates   int
	deletes      int
	plays        int
	searches     int
	remoteErrors int
	librarySize  int
	historySize  int
}

func (m *fakeMetrics) RecordAdd(string)          { m.adds++ }
func (m *fakeMetrics) RecordDuplicate()          { m.duplicates++ }
func (m *fakeMetrics) RecordDelete()             { m.deletes++ }
func (m *fakeMetrics) RecordPlay()               { m.plays++ }
func (m *fakeMetrics) RecordSearch(string)       { m.searches++ }
func (m *fakeMetrics) RecordPersistError(string) {}
func (m *fakeMetrics) RecordRemoteError(string)  { m.remoteErrors++ }
func (m *fakeMetrics) SetLibrarySize(size int)   { m.librarySize = size }
func (m *fakeMetrics) SetHistorySize(size int)   { m.historySize = size }

type sessionEnv struct {
	session *Session
	remote  *fakeRemote
	metrics *fakeMetrics
	backend *storage.MemoryBackend
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()
	backend := storage.NewMemoryBackend()
	remote := &fakeRemote{playlists: make(map[string][]core.Track)}
	metrics := &fakeMetrics{}

	session := NewSession(core.DefaultConfig(), backend, remote, nil, metrics, zap.NewNop())
	session.Start(context.Background())
	t.Cleanup(func() { session.Close() })

	return &sessionEnv{session: session, remote: remote, metrics: metrics, backend: backend}
}

func track(id, title, mediaID string) core.Track {
	return core.Track{ID: id, Title: title, MediaID: mediaID}
}

func TestSession_AddAndPlayFlow(t *testing.T) {
	env := newSessionEnv(t)

	if outcome := env.session.AddToFavorites(track("t1", "Alpha", "m1")); outcome != library.OutcomeAdded {
		t.Fatalf("Add should succeed, got %v", outcome)
	}
	env.session.AddToFavorites(track("t2", "beta", "m2"))

	favorites := env.session.OpenFavorites()
	if len(favorites) != 2 {
		t.Fatalf("Favorites should hold 2 tracks, got %d", len(favorites))
	}

	env.session.SelectTrack(0)

	if !env.session.Queue().IsPlaying() {
		t.Error("Selection should start playback")
	}
	if env.metrics.plays != 1 {
		t.Errorf("Play should be counted, got %d", env.metrics.plays)
	}

	played := env.session.RecentlyPlayed()
	if len(played) != 1 || played[0].MediaID != "m1" {
		t.Errorf("Played log should hold the selected track, got %+v", played)
	}

	added := env.session.RecentlyAdded()
	if len(added) != 2 {
		t.Errorf("Added log should hold both adds, got %d", len(added))
	}
}

func TestSession_DuplicateAddCounted(t *testing.T) {
	env := newSessionEnv(t)

	env.session.AddToFavorites(track("t1", "Song", "m1"))
	if outcome := env.session.AddToFavorites(track("t2", "Song", "m1")); outcome != library.OutcomeDuplicate {
		t.Errorf("Duplicate should be reported, got %v", outcome)
	}

	if env.metrics.adds != 1 || env.metrics.duplicates != 1 {
		t.Errorf("Metrics should count 1 add and 1 duplicate, got %d/%d",
			env.metrics.adds, env.metrics.duplicates)
	}
}

func TestSession_GroupedFavorites(t *testing.T) {
	env := newSessionEnv(t)

	env.session.AddToFavorites(track("t1", "zulu", "m1"))
	env.session.AddToFavorites(track("t2", "42", "m2"))
	env.session.AddToFavorites(track("t3", "Alpha", "m3"))

	groups := env.session.GroupedFavorites()
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	if groups[0].Letter != "#" || groups[1].Letter != "A" || groups[2].Letter != "Z" {
		t.Errorf("Groups out of order: %v %v %v",
			groups[0].Letter, groups[1].Letter, groups[2].Letter)
	}
}

func TestSession_OpenPlaylistFetchesOnce(t *testing.T) {
	env := newSessionEnv(t)
	env.remote.playlists["p1"] = []core.Track{track("r1", "Remote", "rm1")}

	ctx := context.Background()

	tracks := env.session.OpenPlaylist(ctx, "p1")
	if len(tracks) != 1 {
		t.Fatalf("First open should fetch 1 track, got %d", len(tracks))
	}
	if env.remote.playlistCalls != 1 {
		t.Errorf("First open should hit the remote once, got %d calls", env.remote.playlistCalls)
	}

	// Second open serves the cached copy.
	env.session.OpenPlaylist(ctx, "p1")
	if env.remote.playlistCalls != 1 {
		t.Errorf("Second open should use the cache, got %d calls", env.remote.playlistCalls)
	}

	if env.session.Queue().ActiveSource() != "p1" {
		t.Errorf("Opening should activate the playlist, got %q", env.session.Queue().ActiveSource())
	}
}

func TestSession_OpenPlaylistHistoryIDs(t *testing.T) {
	env := newSessionEnv(t)

	env.session.AddToFavorites(track("t1", "Song", "m1"))
	env.session.OpenFavorites()
	env.session.SelectTrack(0)

	ctx := context.Background()

	played := env.session.OpenPlaylist(ctx, core.RecentlyPlayedID)
	if len(played) != 1 || played[0].MediaID != "m1" {
		t.Errorf("Recently-played id should resolve to the played log, got %+v", played)
	}

	added := env.session.OpenPlaylist(ctx, core.RecentlyAddedID)
	if len(added) != 1 {
		t.Errorf("Recently-added id should resolve to the added log, got %+v", added)
	}

	if env.remote.playlistCalls != 0 {
		t.Errorf("History ids should never hit the remote, got %d calls", env.remote.playlistCalls)
	}
}

func TestSession_OpenPlaylistRemoteFailure(t *testing.T) {
	env := newSessionEnv(t)
	env.remote.err = errors.New("service down")

	tracks := env.session.OpenPlaylist(context.Background(), "p1")
	if tracks != nil {
		t.Errorf("Failed fetch should yield nil, got %+v", tracks)
	}
	if env.metrics.remoteErrors != 1 {
		t.Errorf("Remote failure should be counted, got %d", env.metrics.remoteErrors)
	}
}

func TestSession_RefreshPlaylist(t *testing.T) {
	env := newSessionEnv(t)
	env.remote.playlists["p1"] = []core.Track{track("r1", "Old", "rm1")}

	ctx := context.Background()
	env.session.OpenPlaylist(ctx, "p1")

	env.remote.playlists["p1"] = []core.Track{
		track("r2", "New One", "rm2"),
		track("r3", "New Two", "rm3"),
	}

	tracks := env.session.RefreshPlaylist(ctx, "p1")
	if len(tracks) != 2 {
		t.Fatalf("Refresh should fetch the new copy, got %d tracks", len(tracks))
	}
	if env.remote.playlistCalls != 2 {
		t.Errorf("Refresh should always hit the remote, got %d calls", env.remote.playlistCalls)
	}
}

func TestSession_AllSongsSeedsFavorites(t *testing.T) {
	env := newSessionEnv(t)
	env.remote.playlists[core.AllSongsID] = []core.Track{
		track("r1", "Every Song", "rm1"),
	}

	env.session.OpenPlaylist(context.Background(), core.AllSongsID)

	favorites := env.session.OpenFavorites()
	if len(favorites) != 1 || favorites[0].MediaID != "rm1" {
		t.Errorf("All-songs open should seed favorites, got %+v", favorites)
	}
}

func TestSession_DeleteEverywhere(t *testing.T) {
	env := newSessionEnv(t)

	env.session.AddToFavorites(track("t1", "Song", "m1"))
	env.session.AddToPlaylist("p1", track("t2", "Song", "m1"))
	env.session.OpenFavorites()
	env.session.SelectTrack(0)

	if !env.session.DeleteEverywhere("m1") {
		t.Fatal("Delete should report removal")
	}

	if len(env.session.OpenFavorites()) != 0 {
		t.Error("Favorites should be empty after delete")
	}
	if len(env.session.RecentlyPlayed()) != 0 || len(env.session.RecentlyAdded()) != 0 {
		t.Error("History should be purged after delete")
	}
	if env.metrics.deletes != 1 {
		t.Errorf("Delete should be counted once, got %d", env.metrics.deletes)
	}

	// Deleting again is a no-op and not counted.
	if env.session.DeleteEverywhere("m1") {
		t.Error("Second delete should report nothing removed")
	}
	if env.metrics.deletes != 1 {
		t.Errorf("No-op delete should not be counted, got %d", env.metrics.deletes)
	}
}

func TestSession_PlaybackAcrossRendererSignals(t *testing.T) {
	env := newSessionEnv(t)

	env.session.AddToFavorites(track("t1", "One", "m1"))
	env.session.AddToFavorites(track("t2", "Two", "m2"))
	env.session.OpenFavorites()
	env.session.SelectTrack(0)

	env.session.HandleRendererState(core.RendererStateEnded)

	if cursor, _ := env.session.Queue().Cursor(); cursor != 1 {
		t.Errorf("Ended signal should advance, got cursor %d", cursor)
	}

	// End of the queue with repeat off stops playback.
	env.session.HandleRendererState(core.RendererStateEnded)
	if env.session.Queue().IsPlaying() {
		t.Error("Playback should stop at the end of the queue")
	}
}

func TestSession_SearchFlow(t *testing.T) {
	env := newSessionEnv(t)
	env.remote.pages = []*core.SearchPage{
		{
			Results:       []core.SearchResult{{ID: "r1", Kind: core.KindSingle}},
			NextPageToken: "page2",
		},
		{
			Results: []core.SearchResult{{ID: "r2", Kind: core.KindCollection}},
		},
	}

	ctx := context.Background()

	env.session.Search(ctx, "query")
	if len(env.session.SearchResults()) != 1 {
		t.Fatalf("First page should hold 1 result, got %d", len(env.session.SearchResults()))
	}
	if !env.session.SearchSession().HasMore() {
		t.Fatal("First page should leave more results available")
	}

	env.session.NextSearchPage(ctx)
	if env.session.SearchSession().HasMore() {
		t.Error("Second page should exhaust pagination")
	}
	if len(env.session.SearchResults()) != 2 {
		t.Fatalf("Second page should append, got %d results", len(env.session.SearchResults()))
	}

	// Pagination exhausted: another request is a no-op.
	env.session.NextSearchPage(ctx)
	if env.remote.searchCalls != 2 {
		t.Errorf("Exhausted pagination should not hit the remote, got %d calls", env.remote.searchCalls)
	}
	if env.metrics.searches != 2 {
		t.Errorf("Searches should be counted, got %d", env.metrics.searches)
	}
}

func TestSession_StateSurvivesRestart(t *testing.T) {
	backend := storage.NewMemoryBackend()
	remote := &fakeRemote{playlists: make(map[string][]core.Track)}

	session := NewSession(core.DefaultConfig(), backend, remote, nil, nil, zap.NewNop())
	session.Start(context.Background())

	session.AddToFavorites(track("t1", "Song", "m1"))
	session.AddToPlaylist("p1", track("t2", "Other", "m2"))
	session.OpenFavorites()
	session.SelectTrack(0)

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	restarted := NewSession(core.DefaultConfig(), backend, remote, nil, nil, zap.NewNop())
	restarted.Start(context.Background())

	if len(restarted.OpenFavorites()) != 1 {
		t.Error("Favorites should survive a restart")
	}
	if len(restarted.OpenPlaylist(context.Background(), "p1")) != 1 {
		t.Error("Playlists should survive a restart")
	}
	if len(restarted.RecentlyPlayed()) != 1 {
		t.Error("Played log should survive a restart")
	}
	if remote.playlistCalls != 0 {
		t.Errorf("Restored playlist should not be re-fetched, got %d calls", remote.playlistCalls)
	}
}

func TestSession_GaugesTrackSizes(t *testing.T) {
	env := newSessionEnv(t)

	env.session.AddToFavorites(track("t1", "Song", "m1"))
	env.session.AddToPlaylist("p1", track("t2", "Other", "m2"))

	if env.metrics.librarySize != 2 {
		t.Errorf("Library gauge should be 2, got %d", env.metrics.librarySize)
	}
	// Each add also lands in the added log.
	if env.metrics.historySize != 2 {
		t.Errorf("History gauge should be 2, got %d", env.metrics.historySize)
	}
}
