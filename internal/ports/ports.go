package ports

import (
	"context"
	"time"

	"NewsDashboard/internal/domain"
)

// NewsSource pulls fresh items from one upstream provider.
type NewsSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.FeedItem, error)
}

// NewsStore persists news records and enforces the status state machine.
// Inserts rely on the store's URL uniqueness constraint, not on
// application-level checks.
type NewsStore interface {
	// InsertIfAbsent stores a new pending record. Returns false when a
	// record with the same URL already exists (benign, not an error).
	InsertIfAbsent(ctx context.Context, item domain.FeedItem) (bool, error)

	// SelectByStatus returns up to limit records in deterministic
	// (insertion) order.
	SelectByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.NewsRecord, error)

	// SelectL1Passed returns l1_done records with l1_score >= minScore.
	SelectL1Passed(ctx context.Context, minScore, limit int) ([]domain.NewsRecord, error)

	// SelectProcessedSince returns processed records published after the
	// cutoff, for ranking.
	SelectProcessedSince(ctx context.Context, since time.Time) ([]domain.NewsRecord, error)

	UpdateL1(ctx context.Context, id int64, score int, reason string, status domain.Status) error
	UpdateL2(ctx context.Context, id int64, score int, summary, titleLocal, category string) error

	// MarkMerged retires a record whose story was absorbed into the
	// record owning absorbedBy during enrichment.
	MarkMerged(ctx context.Context, id int64, absorbedBy string) error
}

// Message is a single chat turn sent to a model.
type Message struct {
	Role    string
	Content string
}

// ChatClient invokes a chat-completion model. structured requests JSON
// output mode where the API supports it. The returned text may still be
// wrapped in markdown code fencing.
type ChatClient interface {
	Complete(ctx context.Context, messages []Message, model string, structured bool) (string, error)
}

// DigestWriter emits the ranked dashboard artifacts.
type DigestWriter interface {
	Write(ctx context.Context, digest domain.Digest) error
}

// Notifier pushes a short digest summary to an external channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
