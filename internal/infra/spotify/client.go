// Package spotify provides a Spotify-backed track source.
package spotify

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/quizbox/blindtest/internal/domain/track"
)

// Client resolves song queries against the Spotify API.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// New creates a new Spotify client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
	)

	// The HTTP client refreshes the access token automatically.
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	httpClient := auth.Client(ctx, token)

	return &Client{
		client:     spotify.New(httpClient),
		market:     cfg.Market,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// Resolve resolves a free-text query, track URL or URI to a track.
// A query that returns no results is an error; the game layer treats
// any resolve error as a miss.
func (c *Client) Resolve(ctx context.Context, query string) (*track.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is required")
	}

	if id := extractTrackID(query); id != "" {
		return c.getTrack(ctx, id)
	}
	return c.search(ctx, query)
}

func (c *Client) getTrack(ctx context.Context, id string) (*track.Track, error) {
	var result *spotify.FullTrack
	err := c.retry(func() error {
		opts := []spotify.RequestOption{}
		if c.market != "" {
			opts = append(opts, spotify.Market(c.market))
		}
		t, err := c.client.GetTrack(ctx, spotify.ID(id), opts...)
		if err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get track")
	}
	return convertTrack(result), nil
}

func (c *Client) search(ctx context.Context, query string) (*track.Track, error) {
	var result *spotify.SearchResult
	err := c.retry(func() error {
		opts := []spotify.RequestOption{spotify.Limit(1)}
		if c.market != "" {
			opts = append(opts, spotify.Market(c.market))
		}
		r, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, opts...)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "search failed")
	}

	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return nil, errors.Newf("no results for %q", query)
	}
	return convertTrack(&result.Tracks.Tracks[0]), nil
}

// retry retries transient API failures with a linear backoff.
func (c *Client) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable reports whether the error is a rate limit or server
// failure worth retrying.
func isRetryable(err error) bool {
	var se spotify.Error
	if errors.As(err, &se) {
		return se.Status == 429 || se.Status >= 500
	}
	return false
}

// convertTrack converts a Spotify FullTrack to a domain track.
func convertTrack(t *spotify.FullTrack) *track.Track {
	var artwork string
	if len(t.Album.Images) > 0 {
		artwork = t.Album.Images[0].URL
	}

	return &track.Track{
		Title:      t.Name,
		Author:     joinArtists(t.Artists),
		SourceRef:  trackURL(string(t.ID)),
		ArtworkURL: artwork,
		Duration:   time.Duration(t.Duration) * time.Millisecond,
	}
}

// joinArtists joins artist credits in listing order.
func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// trackURL returns the public track URL.
func trackURL(id string) string {
	return "https://open.spotify.com/track/" + id
}

// extractTrackID extracts a track ID from a Spotify URI or URL, or
// returns "" when the input is a plain search query.
func extractTrackID(input string) string {
	input = strings.TrimSpace(input)

	// URI format: spotify:track:TRACK_ID
	if strings.HasPrefix(input, "spotify:track:") {
		return strings.TrimPrefix(input, "spotify:track:")
	}

	// URL format: https://open.spotify.com/track/TRACK_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/track/") {
		parts := strings.Split(input, "/track/")
		id := strings.Split(parts[len(parts)-1], "?")[0]
		return strings.TrimRight(id, "/")
	}

	return ""
}
