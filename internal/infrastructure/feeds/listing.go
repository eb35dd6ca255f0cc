package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsDashboard/internal/config"
	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/ports"
)

// ListingSource scrapes an HTML listing page for sources that expose no
// feed. Selectors come from configuration.
type ListingSource struct {
	name      string
	url       string
	selectors config.SelectorsConfig
	client    *http.Client
}

var _ ports.NewsSource = (*ListingSource)(nil)

// NewListingSource wires an HTTP client; nil uses a 20s-timeout default.
func NewListingSource(cfg config.SourceConfig, client *http.Client) *ListingSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ListingSource{
		name:      cfg.Name,
		url:       cfg.URL,
		selectors: cfg.Selectors,
		client:    client,
	}
}

// Name identifies the source in logs and configuration.
func (s *ListingSource) Name() string {
	return s.name
}

// Fetch downloads the listing page and extracts one item per selector
// hit. Items without a resolvable link are skipped; items without a
// parseable timestamp fall back to fetch time.
func (s *ListingSource) Fetch(ctx context.Context) ([]domain.FeedItem, error) {
	if s.selectors.Item == "" {
		return nil, fmt.Errorf("listing source %s has no item selector", s.name)
	}

	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("invalid listing url %s: %w", s.url, err)
	}

	var items []domain.FeedItem
	doc.Find(s.selectors.Item).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(s.selectors.Title).First().Text())
		link := s.resolveLink(base, sel)
		if title == "" || link == "" {
			return
		}

		items = append(items, domain.FeedItem{
			Title:       title,
			URL:         link,
			SourceName:  s.name,
			PublishedAt: s.parseTime(sel),
		})
	})

	return items, nil
}

func (s *ListingSource) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsDashboard/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing %s returned %s", s.name, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return doc, nil
}

func (s *ListingSource) resolveLink(base *url.URL, sel *goquery.Selection) string {
	link := sel.Find(s.selectors.Link).First()
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}

func (s *ListingSource) parseTime(sel *goquery.Selection) time.Time {
	if s.selectors.Time == "" {
		return time.Now()
	}

	node := sel.Find(s.selectors.Time).First()
	raw, ok := node.Attr("datetime")
	if !ok {
		raw = strings.TrimSpace(node.Text())
	}
	if raw == "" {
		return time.Now()
	}

	layout := s.selectors.TimeLayout
	if layout == "" {
		layout = time.RFC3339
	}
	if parsed, err := time.Parse(layout, raw); err == nil {
		return parsed
	}
	return time.Now()
}
