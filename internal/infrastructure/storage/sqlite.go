package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/ports"
)

const schema = `
	CREATE TABLE IF NOT EXISTS news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		source_name TEXT NOT NULL DEFAULT '',
		published_at INTEGER NOT NULL DEFAULT 0,
		fetched_at INTEGER NOT NULL DEFAULT 0,

		l1_score INTEGER NOT NULL DEFAULT 0,
		l1_reason TEXT NOT NULL DEFAULT '',

		l2_score INTEGER NOT NULL DEFAULT 0,
		l2_summary TEXT NOT NULL DEFAULT '',
		l2_title_local TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',

		status TEXT NOT NULL DEFAULT 'pending'
	);

	CREATE INDEX IF NOT EXISTS idx_news_status ON news(status);
	CREATE INDEX IF NOT EXISTS idx_news_published_at ON news(published_at);
`

var recordColumns = []string{
	"id", "url", "title", "source_name", "published_at", "fetched_at",
	"l1_score", "l1_reason", "l2_score", "l2_summary", "l2_title_local",
	"category", "status",
}

// SQLiteStore persists news records in a local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.NewsStore = (*SQLiteStore)(nil)

// Open creates the database file (and parent directory) if needed and
// initializes the schema.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertIfAbsent stores a new pending record. The URL uniqueness
// constraint (not an application-level check) rejects duplicates;
// a rejected insert returns false with no error.
func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, item domain.FeedItem) (bool, error) {
	query, args, err := sq.Insert("news").
		Columns("url", "title", "source_name", "published_at", "fetched_at", "status").
		Values(item.URL, item.Title, item.SourceName, item.PublishedAt.Unix(), time.Now().Unix(), domain.StatusPending).
		Suffix("ON CONFLICT(url) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SelectByStatus returns up to limit records ordered by id, so a failed
// batch is re-selected identically on the next attempt.
func (s *SQLiteStore) SelectByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.NewsRecord, error) {
	builder := sq.Select(recordColumns...).
		From("news").
		Where(sq.Eq{"status": status}).
		OrderBy("id ASC").
		Limit(uint64(limit))

	return s.selectRecords(ctx, builder)
}

// SelectL1Passed returns l1_done records at or above minScore.
func (s *SQLiteStore) SelectL1Passed(ctx context.Context, minScore, limit int) ([]domain.NewsRecord, error) {
	builder := sq.Select(recordColumns...).
		From("news").
		Where(sq.Eq{"status": domain.StatusL1Done}).
		Where(sq.GtOrEq{"l1_score": minScore}).
		OrderBy("id ASC").
		Limit(uint64(limit))

	return s.selectRecords(ctx, builder)
}

// SelectProcessedSince returns processed records published after the
// cutoff, newest first.
func (s *SQLiteStore) SelectProcessedSince(ctx context.Context, since time.Time) ([]domain.NewsRecord, error) {
	builder := sq.Select(recordColumns...).
		From("news").
		Where(sq.Eq{"status": domain.StatusProcessed}).
		Where(sq.Gt{"published_at": since.Unix()}).
		OrderBy("published_at DESC")

	return s.selectRecords(ctx, builder)
}

// UpdateL1 records the stage-1 verdict for one record.
func (s *SQLiteStore) UpdateL1(ctx context.Context, id int64, score int, reason string, status domain.Status) error {
	query, args, err := sq.Update("news").
		Set("l1_score", score).
		Set("l1_reason", reason).
		Set("status", status).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"status": domain.StatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build l1 update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update l1 result: %w", err)
	}
	return nil
}

// UpdateL2 records the enrichment output and moves the record to its
// processed terminal state.
func (s *SQLiteStore) UpdateL2(ctx context.Context, id int64, score int, summary, titleLocal, category string) error {
	query, args, err := sq.Update("news").
		Set("l2_score", score).
		Set("l2_summary", summary).
		Set("l2_title_local", titleLocal).
		Set("category", category).
		Set("status", domain.StatusProcessed).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"status": domain.StatusL1Done}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build l2 update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update l2 result: %w", err)
	}
	return nil
}

// MarkMerged retires a record deduplicated away by enrichment, noting
// which URL absorbed its story.
func (s *SQLiteStore) MarkMerged(ctx context.Context, id int64, absorbedBy string) error {
	query, args, err := sq.Update("news").
		Set("status", domain.StatusMerged).
		Set("l1_reason", "Merged into "+absorbedBy).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"status": domain.StatusL1Done}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build merge update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark merged: %w", err)
	}
	return nil
}

func (s *SQLiteStore) selectRecords(ctx context.Context, builder sq.SelectBuilder) ([]domain.NewsRecord, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.NewsRecord
	for rows.Next() {
		var (
			rec         domain.NewsRecord
			publishedAt int64
			fetchedAt   int64
		)
		err := rows.Scan(
			&rec.ID, &rec.URL, &rec.Title, &rec.SourceName, &publishedAt, &fetchedAt,
			&rec.L1Score, &rec.L1Reason, &rec.L2Score, &rec.L2Summary, &rec.L2TitleLocal,
			&rec.Category, &rec.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.PublishedAt = time.Unix(publishedAt, 0)
		rec.FetchedAt = time.Unix(fetchedAt, 0)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}
