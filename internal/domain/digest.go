package domain

// DigestItem is a ranked record as it appears in the dashboard
// artifact: all record fields plus the computed gravity score.
// Timestamps are flattened to epoch seconds.
type DigestItem struct {
	NewsRecord
	PublishedAt  int64   `json:"published_at"`
	FetchedAt    int64   `json:"fetched_at"`
	GravityScore float64 `json:"gravity_score"`
}

// DigestConfig echoes the ranking parameters into the artifact.
type DigestConfig struct {
	Gravity     float64 `json:"gravity"`
	WindowHours int     `json:"window_hours"`
}

// TopItem is one entry of the truncated summary artifact.
type TopItem struct {
	Title string `json:"title"`
	Meta  string `json:"meta"`
}

// Digest is the full output of one ranking pass. Items are sorted by
// descending gravity score; Top holds the truncated summary list.
type Digest struct {
	GeneratedAt    int64        `json:"generated_at"`
	GeneratedAtStr string       `json:"generated_at_str"`
	Config         DigestConfig `json:"config"`
	Items          []DigestItem `json:"items"`

	Top []TopItem `json:"-"`
}
