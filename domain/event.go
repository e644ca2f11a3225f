package domain

import "time"

// Source identifies the upstream producer of an event. It is the first
// partition discriminator in the archival store and a tag field in the
// search index.
type Source string

const SourceGitHub Source = "github"

// Event is the canonical form of one upstream activity record. It is built
// once per record per poll cycle and never mutated afterwards.
type Event struct {
	Source     Source
	ID         string
	Type       string
	Author     string
	Repo       string
	Time       time.Time
	Date       string
	Title      string
	ContentURL string
}

// IndexKey returns the deterministic search-index document key for the
// event. Writing the same key twice overwrites in place.
func (e Event) IndexKey() string {
	return "event:" + string(e.Source) + ":" + e.ID
}
