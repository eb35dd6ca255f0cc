package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/ports"
)

// RSSSource fetches one RSS/Atom feed and normalizes its entries.
type RSSSource struct {
	name   string
	url    string
	parser *gofeed.Parser
}

var _ ports.NewsSource = (*RSSSource)(nil)

// NewRSSSource wires a gofeed parser for a single feed URL.
func NewRSSSource(name, url string) *RSSSource {
	return &RSSSource{
		name:   name,
		url:    url,
		parser: gofeed.NewParser(),
	}
}

// Name identifies the source in logs and configuration.
func (s *RSSSource) Name() string {
	return s.name
}

// Fetch parses the feed and returns normalized items. The display name
// prefers the feed's own title over the configured one. Entries without
// a link are skipped; entries without a date fall back to fetch time.
func (s *RSSSource) Fetch(ctx context.Context) ([]domain.FeedItem, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.url, err)
	}

	sourceName := feed.Title
	if sourceName == "" {
		sourceName = s.name
	}

	items := make([]domain.FeedItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Link == "" {
			continue
		}
		items = append(items, domain.FeedItem{
			Title:       entry.Title,
			URL:         entry.Link,
			SourceName:  sourceName,
			PublishedAt: entryTime(entry),
		})
	}
	return items, nil
}

func entryTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Now()
}
