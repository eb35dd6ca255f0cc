package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/ports"
)

// L2Deps wires the stage-2 enrichment scorer.
type L2Deps struct {
	Store     ports.NewsStore
	Chat      ports.ChatClient
	Model     string
	BatchSize int
	Threshold int
	Logger    *slog.Logger
}

// L2Processor batches L1-passed records through the strong model for
// localized titles, summaries and categories. Reconciliation is strict
// exact-match on URL: the model rewrites titles, so the URL it echoes
// back is the only stable key.
type L2Processor struct {
	store     ports.NewsStore
	chat      ports.ChatClient
	model     string
	batchSize int
	threshold int
	logger    *slog.Logger
}

// NewL2Processor constructs the stage-2 processor.
func NewL2Processor(deps L2Deps) *L2Processor {
	return &L2Processor{
		store:     deps.Store,
		chat:      deps.Chat,
		model:     deps.Model,
		batchSize: deps.BatchSize,
		threshold: deps.Threshold,
		logger:    deps.Logger,
	}
}

type l2Entry struct {
	Category         string   `json:"category"`
	TitleOptimized   string   `json:"title_optimized"`
	Score            flexInt  `json:"score"`
	TechnicalSummary string   `json:"technical_summary"`
	URL              string   `json:"url"`
	MergedURLs       []string `json:"merged_urls"`
}

type l2Response struct {
	Feed []l2Entry `json:"feed"`
}

// ProcessL1Passed enriches one batch of l1_done records. It returns the
// batch size on success (0 means nothing left) and mutates nothing when
// the model call or response parsing fails.
func (p *L2Processor) ProcessL1Passed(ctx context.Context) (int, error) {
	items, err := p.store.SelectL1Passed(ctx, p.threshold, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("select l1 passed: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	p.logger.Info("enrichment batch", "items", len(items))

	// The URL must appear in the request text: it is the only
	// identifier the model is asked to echo back.
	var list strings.Builder
	for i, item := range items {
		fmt.Fprintf(&list, "%d. %q (%s) - %s\n", i+1, item.Title, item.SourceName, item.URL)
	}

	messages := []ports.Message{
		{Role: "system", Content: l2SystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Input:\n\n%s\nPlease generate the output JSON feed.", list.String())},
	}

	text, err := p.chat.Complete(ctx, messages, p.model, true)
	if err != nil {
		return 0, fmt.Errorf("enrichment model call: %w", err)
	}

	var resp l2Response
	if err := json.Unmarshal([]byte(stripFence(text)), &resp); err != nil {
		return 0, fmt.Errorf("parse enrichment response: %w", err)
	}

	byURL := make(map[string]domain.NewsRecord, len(items))
	for _, item := range items {
		byURL[item.URL] = item
	}

	for _, entry := range resp.Feed {
		rec, ok := byURL[entry.URL]
		if !ok {
			p.logger.Warn("enrichment entry matched nothing", "url", entry.URL, "title", entry.TitleOptimized)
			continue
		}

		err := p.store.UpdateL2(ctx, rec.ID, int(entry.Score), entry.TechnicalSummary, entry.TitleOptimized, entry.Category)
		if err != nil {
			p.logger.Error("enrichment update failed", "id", rec.ID, "error", err)
			continue
		}
		p.logger.Debug("enrichment done", "id", rec.ID, "title", entry.TitleOptimized)

		// Batch records the model folded into this entry are retired
		// explicitly instead of lingering l1_done forever.
		for _, mergedURL := range entry.MergedURLs {
			if mergedURL == entry.URL {
				continue
			}
			absorbed, ok := byURL[mergedURL]
			if !ok {
				continue
			}
			if err := p.store.MarkMerged(ctx, absorbed.ID, entry.URL); err != nil {
				p.logger.Error("merge update failed", "id", absorbed.ID, "error", err)
				continue
			}
			p.logger.Debug("record merged", "id", absorbed.ID, "into", entry.URL)
		}
	}

	return len(items), nil
}
