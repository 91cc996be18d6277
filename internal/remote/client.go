// Package remote implements the HTTP client for the external media index
// service: paginated search and playlist contents.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tunedeck/internal/core"
)

// Client speaks the media index service's JSON API. Requests carry the
// configured API key as a bearer token.
type Client struct {
	config *core.RemoteConfig
	logger *zap.Logger
	http   *http.Client
}

func NewClient(config *core.RemoteConfig, logger *zap.Logger) *Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.APIKey})
	httpClient := oauth2.NewClient(context.Background(), source)
	httpClient.Timeout = config.Timeout

	return &Client{
		config: config,
		logger: logger,
		http:   httpClient,
	}
}

// Search fetches one page of results for query. pageToken is empty for the
// first page; the returned page's NextPageToken is empty when pagination is
// exhausted.
func (c *Client) Search(ctx context.Context, query, pageToken string) (*core.SearchPage, error) {
	values := url.Values{}
	values.Set("q", query)
	if pageToken != "" {
		values.Set("pageToken", pageToken)
	}

	var page core.SearchPage
	if err := c.getJSON(ctx, "/search?"+values.Encode(), &page); err != nil {
		return nil, err
	}

	c.logger.Debug("Search page fetched",
		zap.String("query", query),
		zap.Int("results", len(page.Results)),
		zap.Bool("hasMore", page.NextPageToken != ""))
	return &page, nil
}

// PlaylistTracks fetches the full contents of a remote playlist. A response
// without tracks yields an empty playlist rather than an error.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]core.Track, error) {
	values := url.Values{}
	values.Set("playlistId", playlistID)

	var payload struct {
		Tracks []core.Track `json:"tracks"`
	}
	if err := c.getJSON(ctx, "/playlist?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	if payload.Tracks == nil {
		payload.Tracks = []core.Track{}
	}

	c.logger.Debug("Playlist fetched",
		zap.String("playlistID", playlistID),
		zap.Int("tracks", len(payload.Tracks)))
	return payload.Tracks, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
