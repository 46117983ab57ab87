package itunes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "eiffel 65 blue", r.URL.Query().Get("term"))
		assert.Equal(t, "music", r.URL.Query().Get("media"))
		assert.Equal(t, "song", r.URL.Query().Get("entity"))
		assert.Equal(t, "FR", r.URL.Query().Get("country"))

		response := `{
			"resultCount": 2,
			"results": [
				{
					"trackName": "Blue (Da Ba Dee)",
					"artistName": "Eiffel 65",
					"trackViewUrl": "https://music.apple.com/track/1",
					"artworkUrl100": "https://img.example/1.jpg",
					"trackTimeMillis": 213000
				},
				{
					"trackName": "Move Your Body",
					"artistName": "Eiffel 65",
					"trackViewUrl": "https://music.apple.com/track/2",
					"artworkUrl100": "https://img.example/2.jpg",
					"trackTimeMillis": 269000
				}
			]
		}`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	client, err := New(Config{Country: "FR"})
	require.NoError(t, err)
	client.baseURL = server.URL

	ctx := context.Background()
	got, err := client.Resolve(ctx, "eiffel 65 blue")
	require.NoError(t, err)
	assert.Equal(t, "Blue (Da Ba Dee)", got.Title)
	assert.Equal(t, "Eiffel 65", got.Author)
	assert.Equal(t, "https://music.apple.com/track/1", got.SourceRef)
	assert.Equal(t, 213*time.Second, got.Duration)

	// Second resolve is served from cache.
	cached, err := client.Resolve(ctx, "eiffel 65 blue")
	require.NoError(t, err)
	assert.Equal(t, got, cached)
	assert.Equal(t, 1, calls)
}

func TestResolve_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount": 0, "results": []}`)
	}))
	defer server.Close()

	client, err := New(Config{})
	require.NoError(t, err)
	client.baseURL = server.URL

	_, err = client.Resolve(context.Background(), "gibberish qwerty")
	assert.Error(t, err)
}

func TestResolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := New(Config{})
	require.NoError(t, err)
	client.baseURL = server.URL

	_, err = client.Resolve(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestResolve_EmptyQuery(t *testing.T) {
	client, err := New(Config{})
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), "")
	assert.Error(t, err)
}
