package dashboard

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDashboard/internal/domain"
)

func sampleDigest() domain.Digest {
	rec := domain.NewsRecord{
		ID:         1,
		URL:        "https://a.example/foo?x=1&y=2",
		Title:      "Foo <Launch>",
		SourceName: "Test Source",
		L2Score:    88,
		Category:   "Aerospace_HardTech",
		Status:     domain.StatusProcessed,
	}
	return domain.Digest{
		GeneratedAt:    1756350000,
		GeneratedAtStr: "2026-08-28 03:00:00",
		Config:         domain.DigestConfig{Gravity: 1.1, WindowHours: 72},
		Items: []domain.DigestItem{{
			NewsRecord:   rec,
			PublishedAt:  1756340000,
			FetchedAt:    1756341000,
			GravityScore: 61.5,
		}},
		Top: []domain.TopItem{
			{Title: "Foo <Launch>", Meta: "Test Source | 2H"},
			{Title: "Bar", Meta: "Other | 5H"},
		},
	}
}

func TestWriterProducesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "dashboard.json"), 2)

	require.NoError(t, w.Write(context.Background(), sampleDigest()))

	raw, err := os.ReadFile(filepath.Join(dir, "dashboard.json"))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "generated_at")
	assert.Contains(t, doc, "config")
	assert.Contains(t, doc, "items")
	assert.NotContains(t, doc, "Top")

	var items []map[string]any
	require.NoError(t, json.Unmarshal(doc["items"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(1756340000), items[0]["published_at"])
	assert.Equal(t, 61.5, items[0]["gravity_score"])

	// HTML escaping stays off so URLs and titles survive verbatim.
	assert.Contains(t, string(raw), "https://a.example/foo?x=1&y=2")
	assert.Contains(t, string(raw), "Foo <Launch>")

	topRaw, err := os.ReadFile(filepath.Join(dir, "top2.json"))
	require.NoError(t, err)

	var top []domain.TopItem
	require.NoError(t, json.Unmarshal(topRaw, &top))
	require.Len(t, top, 2)
	assert.Equal(t, "Test Source | 2H", top[0].Meta)
}

func TestWriterCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "out", "www", "dashboard.json")
	w := NewWriter(nested, 2)

	require.NoError(t, w.Write(context.Background(), sampleDigest()))

	_, err := os.Stat(nested)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "out", "www", "top2.json"))
	assert.NoError(t, err)
}

func TestWriterTopPathStableOnShortList(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "dashboard.json"), 10)

	// A quiet cycle ranks fewer items than the configured top-N; the
	// artifact path must not change with it, or consumers reading the
	// fixed path would keep serving a stale list.
	digest := sampleDigest()
	digest.Top = digest.Top[:1]
	require.NoError(t, w.Write(context.Background(), digest))

	raw, err := os.ReadFile(filepath.Join(dir, "top10.json"))
	require.NoError(t, err)

	var top []domain.TopItem
	require.NoError(t, json.Unmarshal(raw, &top))
	assert.Len(t, top, 1)

	_, err = os.Stat(filepath.Join(dir, "top1.json"))
	assert.True(t, os.IsNotExist(err))
}
