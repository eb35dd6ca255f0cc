package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/ports"
)

// Writer emits the ranked dashboard artifacts: the full digest document
// and a truncated top-N list next to it.
type Writer struct {
	dashboardPath string
	topN          int
}

var _ ports.DigestWriter = (*Writer)(nil)

// NewWriter targets the configured dashboard path; the top-N artifact
// lands in the same directory. topN names the artifact (top<N>.json),
// so consumers read a stable path even when a cycle ranks fewer items.
func NewWriter(dashboardPath string, topN int) *Writer {
	return &Writer{dashboardPath: dashboardPath, topN: topN}
}

// Write persists dashboard.json and top<N>.json.
func (w *Writer) Write(_ context.Context, digest domain.Digest) error {
	if err := writeJSON(w.dashboardPath, digest); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}

	topPath := filepath.Join(filepath.Dir(w.dashboardPath), fmt.Sprintf("top%d.json", w.topN))
	if err := writeJSON(topPath, digest.Top); err != nil {
		return fmt.Errorf("write top list: %w", err)
	}

	return nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
