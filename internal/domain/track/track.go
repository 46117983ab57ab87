// Package track provides the Track domain entity.
package track

import (
	"fmt"
	"time"
)

// Track represents a resolved song entry in a blindtest.
// Title and Author are the two guessable fields; SourceRef is an
// opaque playback reference understood by the audio relay.
type Track struct {
	Title      string        // Track title
	Author     string        // Artist credit (joined if multiple)
	SourceRef  string        // Playback reference (provider URI or URL)
	ArtworkURL string        // Cover art URL, optional
	Duration   time.Duration // Full track duration, optional
}

// Label returns a human-readable "Author - Title" credit line,
// used in end-of-game summaries.
func (t *Track) Label() string {
	if t.Author == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.Author, t.Title)
}

// Resolution is the outcome of resolving a batch of song queries.
// Queries that produced no track are reported, not dropped silently.
type Resolution struct {
	Tracks  []*Track // Resolved tracks, in query order
	Missing []string // Queries that did not resolve
}

// Complete reports whether every query resolved to a track.
func (r *Resolution) Complete() bool {
	return len(r.Missing) == 0
}
