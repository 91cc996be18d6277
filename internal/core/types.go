package core

import (
	"context"
)

// Track is a single entry in a library collection. ID is unique within the
// collection that holds it; MediaID is the external media reference and is
// the identity used for duplicate detection. Two copies of the same media in
// different collections carry different IDs but equal MediaIDs.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	MediaID   string `json:"mediaId"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// ResultKind distinguishes single-track search results from collections.
type ResultKind string

const (
	// KindSingle is a result representing one playable track.
	KindSingle ResultKind = "single"
	// KindCollection is a result representing a whole playlist.
	KindCollection ResultKind = "collection"
)

// SearchResult is one entry of a remote search response page.
type SearchResult struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Artist       string     `json:"artist"`
	MediaID      string     `json:"mediaId,omitempty"`
	CollectionID string     `json:"collectionId,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	Kind         ResultKind `json:"kind"`
	ItemCount    int        `json:"itemCount,omitempty"`
}

// SearchPage is one page of remote search results. An empty NextPageToken
// signals the end of pagination.
type SearchPage struct {
	Results       []SearchResult `json:"results"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// RemoteClient talks to the external media index service.
type RemoteClient interface {
	Search(ctx context.Context, query, pageToken string) (*SearchPage, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)
}

// Renderer is the external media-rendering capability. The core only issues
// commands; actual audio/video handling lives behind this interface.
type Renderer interface {
	Play()
	Pause()
	SeekTo(seconds float64)
}

// RendererStateEnded is the one renderer signal the core reacts to.
const RendererStateEnded = "ended"
