// Package itunes provides a track source backed by the iTunes Search
// API. The API needs no credentials, which makes it a convenient
// fallback source.
package itunes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/quizbox/blindtest/internal/domain/track"
)

// Client is an iTunes Search API client.
type Client struct {
	baseURL    string
	country    string
	limit      int
	httpClient *http.Client

	// Cache of resolved queries
	cacheMu sync.RWMutex
	cache   map[string]*track.Track
}

// Config represents iTunes client configuration.
type Config struct {
	Country string // ISO 3166-1 alpha-2 store front, default US
	Limit   int    // Results fetched per query, default 5
}

// searchResponse represents the response from the search endpoint.
type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackName       string `json:"trackName"`
		ArtistName      string `json:"artistName"`
		TrackViewURL    string `json:"trackViewUrl"`
		ArtworkURL100   string `json:"artworkUrl100"`
		TrackTimeMillis int64  `json:"trackTimeMillis"`
	} `json:"results"`
}

// New creates a new iTunes client.
func New(cfg Config) (*Client, error) {
	country := cfg.Country
	if country == "" {
		country = "US"
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 5
	}

	return &Client{
		baseURL:    "https://itunes.apple.com/search",
		country:    country,
		limit:      limit,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[string]*track.Track),
	}, nil
}

// Resolve resolves a free-text query to a track. Results are cached
// per query for the lifetime of the client.
func (c *Client) Resolve(ctx context.Context, query string) (*track.Track, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}

	c.cacheMu.RLock()
	if cached, ok := c.cache[query]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	params := url.Values{}
	params.Set("term", query)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("country", c.country)
	params.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Newf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	if result.ResultCount == 0 || len(result.Results) == 0 {
		return nil, errors.Newf("no results for %q", query)
	}

	first := result.Results[0]
	t := &track.Track{
		Title:      first.TrackName,
		Author:     first.ArtistName,
		SourceRef:  first.TrackViewURL,
		ArtworkURL: first.ArtworkURL100,
		Duration:   time.Duration(first.TrackTimeMillis) * time.Millisecond,
	}

	c.cacheMu.Lock()
	c.cache[query] = t
	c.cacheMu.Unlock()

	zlog.Debug().Msgf("itunes resolved: query=%q track=%q artist=%q", query, t.Title, t.Author)
	return t, nil
}
