package game

import "github.com/cockroachdb/errors"

// Session creation and resolution errors. Utterance processing never
// produces an error: irrelevant or malformed text is simply a non-match.
var (
	// ErrNoSongs is returned when a game is created with an empty song list.
	ErrNoSongs = errors.New("song list is empty")

	// ErrRoundsExceedSongs is returned when the requested round count
	// exceeds the number of requested songs.
	ErrRoundsExceedSongs = errors.New("round count exceeds song count")

	// ErrNoTracksResolved is returned when none of the song queries
	// resolved to a playable track.
	ErrNoTracksResolved = errors.New("no tracks resolved")

	// ErrTracksMissing is returned when some queries did not resolve and
	// the session was not configured to tolerate missing tracks.
	ErrTracksMissing = errors.New("some tracks did not resolve")

	// ErrAlreadyActive is returned when a group key already holds a
	// non-finished session. The caller must stop the old session first.
	ErrAlreadyActive = errors.New("a game is already active for this group")

	// ErrSessionFinished is returned when starting a session that has
	// already run or been force-stopped.
	ErrSessionFinished = errors.New("session is finished")
)
