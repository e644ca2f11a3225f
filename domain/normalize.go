package domain

import (
	"errors"
	"fmt"
	"time"
)

// createdAtLayout is the exact timestamp format the feed emits. A literal
// trailing Z: offsets are not accepted.
const createdAtLayout = "2006-01-02T15:04:05Z"

// ErrBadTimestamp reports a created_at value that does not match the feed
// format. A record carrying one is dropped from both stores.
var ErrBadTimestamp = errors.New("malformed created_at timestamp")

// NormalizeError reports a raw record that could not be turned into an Event.
type NormalizeError struct {
	RecordID string
	Err      error
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize record %q: %v", e.RecordID, e.Err)
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// Normalize converts one raw feed record into a canonical Event. Missing
// actor or repo names default to "N/A" rather than failing; partial data is
// more useful than none. A created_at that does not parse fails the whole
// record with a *NormalizeError.
//
// Normalize is pure: no I/O, no side effects.
func Normalize(raw RawEvent) (Event, error) {
	ts, err := time.Parse(createdAtLayout, raw.CreatedAt)
	if err != nil {
		return Event{}, &NormalizeError{
			RecordID: raw.ID,
			Err:      fmt.Errorf("%w: %q", ErrBadTimestamp, raw.CreatedAt),
		}
	}
	author := raw.Actor.Login
	if author == "" {
		author = "N/A"
	}
	repo := raw.Repo.Name
	if repo == "" {
		repo = "N/A"
	}
	ts = ts.UTC()
	return Event{
		Source:     SourceGitHub,
		ID:         raw.ID,
		Type:       raw.Type,
		Author:     author,
		Repo:       repo,
		Time:       ts,
		Date:       ts.Format("2006-01-02"),
		Title:      fmt.Sprintf("%s by %s on %s", raw.Type, author, repo),
		ContentURL: "https://github.com/" + repo,
	}, nil
}
