package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory ports.NewsStore that enforces the same
// forward-only status transitions as the sqlite store.
type fakeStore struct {
	records map[int64]*domain.NewsRecord
	nextID  int64
}

var _ ports.NewsStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[int64]*domain.NewsRecord{}, nextID: 1}
}

func (s *fakeStore) add(title, url string, status domain.Status, l1Score int, publishedAt time.Time) int64 {
	id := s.nextID
	s.nextID++
	s.records[id] = &domain.NewsRecord{
		ID:          id,
		URL:         url,
		Title:       title,
		SourceName:  "Test Source",
		PublishedAt: publishedAt,
		FetchedAt:   time.Now(),
		L1Score:     l1Score,
		Status:      status,
	}
	return id
}

func (s *fakeStore) get(id int64) domain.NewsRecord {
	return *s.records[id]
}

func (s *fakeStore) sorted() []*domain.NewsRecord {
	out := make([]*domain.NewsRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeStore) InsertIfAbsent(_ context.Context, item domain.FeedItem) (bool, error) {
	for _, rec := range s.records {
		if rec.URL == item.URL {
			return false, nil
		}
	}
	s.add(item.Title, item.URL, domain.StatusPending, 0, item.PublishedAt)
	return true, nil
}

func (s *fakeStore) SelectByStatus(_ context.Context, status domain.Status, limit int) ([]domain.NewsRecord, error) {
	var out []domain.NewsRecord
	for _, rec := range s.sorted() {
		if rec.Status == status {
			out = append(out, *rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) SelectL1Passed(_ context.Context, minScore, limit int) ([]domain.NewsRecord, error) {
	var out []domain.NewsRecord
	for _, rec := range s.sorted() {
		if rec.Status == domain.StatusL1Done && rec.L1Score >= minScore {
			out = append(out, *rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) SelectProcessedSince(_ context.Context, since time.Time) ([]domain.NewsRecord, error) {
	var out []domain.NewsRecord
	for _, rec := range s.sorted() {
		if rec.Status == domain.StatusProcessed && rec.PublishedAt.After(since) {
			out = append(out, *rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (s *fakeStore) UpdateL1(_ context.Context, id int64, score int, reason string, status domain.Status) error {
	rec, ok := s.records[id]
	if !ok || rec.Status != domain.StatusPending {
		return nil
	}
	rec.L1Score = score
	rec.L1Reason = reason
	rec.Status = status
	return nil
}

func (s *fakeStore) UpdateL2(_ context.Context, id int64, score int, summary, titleLocal, category string) error {
	rec, ok := s.records[id]
	if !ok || rec.Status != domain.StatusL1Done {
		return nil
	}
	rec.L2Score = score
	rec.L2Summary = summary
	rec.L2TitleLocal = titleLocal
	rec.Category = category
	rec.Status = domain.StatusProcessed
	return nil
}

func (s *fakeStore) MarkMerged(_ context.Context, id int64, absorbedBy string) error {
	rec, ok := s.records[id]
	if !ok || rec.Status != domain.StatusL1Done {
		return nil
	}
	rec.L1Reason = "Merged into " + absorbedBy
	rec.Status = domain.StatusMerged
	return nil
}

// fakeChat replays scripted responses and records every request.
type fakeChat struct {
	responses []string
	err       error
	requests  [][]ports.Message
	calls     int
}

var _ ports.ChatClient = (*fakeChat)(nil)

func (c *fakeChat) Complete(_ context.Context, messages []ports.Message, _ string, _ bool) (string, error) {
	c.requests = append(c.requests, messages)
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", fmt.Errorf("fake chat exhausted")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}
