package domain

// RawEvent is the wire shape of one record from the public GitHub events
// feed. Upstream payloads are not guaranteed complete; any field here may be
// empty.
type RawEvent struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Actor struct {
		Login string `json:"login"`
	} `json:"actor"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	CreatedAt string `json:"created_at"`
}
