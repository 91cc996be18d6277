package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"tunedeck/internal/core"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&core.RemoteConfig{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "test query" {
			t.Errorf("Query param q = %q, expected %q", got, "test query")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q, expected bearer token", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"id": "r1", "title": "Song One", "artist": "Artist", "mediaId": "m1", "kind": "single"},
				{"id": "r2", "title": "Mix", "collectionId": "c1", "kind": "collection", "itemCount": 12}
			],
			"nextPageToken": "page2"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	page, err := client.Search(context.Background(), "test query", "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(page.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(page.Results))
	}
	if page.Results[0].Kind != core.KindSingle || page.Results[0].MediaID != "m1" {
		t.Errorf("First result mismatch: %+v", page.Results[0])
	}
	if page.Results[1].Kind != core.KindCollection || page.Results[1].ItemCount != 12 {
		t.Errorf("Second result mismatch: %+v", page.Results[1])
	}
	if page.NextPageToken != "page2" {
		t.Errorf("NextPageToken = %q, expected %q", page.NextPageToken, "page2")
	}
}

func TestClient_SearchPageToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageToken"); got != "page2" {
			t.Errorf("pageToken = %q, expected %q", got, "page2")
		}
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	page, err := client.Search(context.Background(), "query", "page2")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if page.NextPageToken != "" {
		t.Errorf("Missing token should decode as empty, got %q", page.NextPageToken)
	}
}

func TestClient_PlaylistTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlist" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("playlistId"); got != "p1" {
			t.Errorf("playlistId = %q, expected %q", got, "p1")
		}
		w.Write([]byte(`{"tracks": [{"id": "t1", "title": "Song", "mediaId": "m1"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	tracks, err := client.PlaylistTracks(context.Background(), "p1")
	if err != nil {
		t.Fatalf("PlaylistTracks failed: %v", err)
	}
	if len(tracks) != 1 || tracks[0].MediaID != "m1" {
		t.Errorf("Tracks mismatch: %+v", tracks)
	}
}

func TestClient_PlaylistTracksEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	tracks, err := client.PlaylistTracks(context.Background(), "p1")
	if err != nil {
		t.Fatalf("PlaylistTracks failed: %v", err)
	}
	if tracks == nil {
		t.Error("Missing tracks field should yield an empty slice, not nil")
	}
	if len(tracks) != 0 {
		t.Errorf("Expected no tracks, got %+v", tracks)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if _, err := client.Search(context.Background(), "query", ""); err == nil {
		t.Error("Non-200 search should return an error")
	}
	if _, err := client.PlaylistTracks(context.Background(), "p1"); err == nil {
		t.Error("Non-200 playlist fetch should return an error")
	}
}

func TestClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if _, err := client.Search(context.Background(), "query", ""); err == nil {
		t.Error("Malformed response should return an error")
	}
}
