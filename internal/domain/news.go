package domain

import "time"

// Status tracks a record's position in the triage state machine.
// Transitions only move forward; terminal states are never left.
type Status string

const (
	StatusPending   Status = "pending"   // ingested, awaiting L1
	StatusFiltered  Status = "filtered"  // rejected by L1 (terminal)
	StatusL1Done    Status = "l1_done"   // passed L1, awaiting L2
	StatusProcessed Status = "processed" // enriched by L2 (terminal)
	StatusMerged    Status = "merged"    // absorbed into another record by L2 (terminal)
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusFiltered || s == StatusProcessed || s == StatusMerged
}

// NewsRecord is the only persistent entity. URL is the dedup key;
// published_at never changes after creation and is the sole time basis
// for ranking.
type NewsRecord struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	SourceName   string    `json:"source_name"`
	PublishedAt  time.Time `json:"-"`
	FetchedAt    time.Time `json:"-"`
	L1Score      int       `json:"l1_score"`
	L1Reason     string    `json:"l1_reason"`
	L2Score      int       `json:"l2_score"`
	L2Summary    string    `json:"l2_summary"`
	L2TitleLocal string    `json:"l2_title_local"`
	Category     string    `json:"category"`
	Status       Status    `json:"status"`
}

// DisplayTitle prefers the localized title produced by enrichment.
func (r NewsRecord) DisplayTitle() string {
	if r.L2TitleLocal != "" {
		return r.L2TitleLocal
	}
	return r.Title
}

// FeedItem is a normalized item produced by a source before it becomes
// a persistent record.
type FeedItem struct {
	Title       string
	URL         string
	SourceName  string
	PublishedAt time.Time
}
