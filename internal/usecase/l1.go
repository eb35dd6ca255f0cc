package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/match"
	"NewsDashboard/internal/ports"
)

// L1Deps wires the stage-1 triage processor.
type L1Deps struct {
	Store     ports.NewsStore
	Chat      ports.ChatClient
	Model     string
	Threshold int
	Logger    *slog.Logger

	// NewMatcher overrides the title matcher; nil uses TitleMatcher.
	NewMatcher func([]domain.NewsRecord) match.Matcher
}

// L1Processor batches pending records through the fast triage model and
// reconciles the free-text response back to records by title matching.
type L1Processor struct {
	store      ports.NewsStore
	chat       ports.ChatClient
	model      string
	threshold  int
	logger     *slog.Logger
	newMatcher func([]domain.NewsRecord) match.Matcher
}

// NewL1Processor constructs the stage-1 processor.
func NewL1Processor(deps L1Deps) *L1Processor {
	newMatcher := deps.NewMatcher
	if newMatcher == nil {
		newMatcher = func(records []domain.NewsRecord) match.Matcher {
			return match.NewTitleMatcher(records)
		}
	}
	return &L1Processor{
		store:      deps.Store,
		chat:       deps.Chat,
		model:      deps.Model,
		threshold:  deps.Threshold,
		logger:     deps.Logger,
		newMatcher: newMatcher,
	}
}

type l1Entry struct {
	Title   string  `json:"title"`
	Score   flexInt `json:"score"`
	Context string  `json:"context"`
}

// ProcessPending triages one batch of pending records. It returns the
// batch size on success (0 means nothing left to process) and mutates
// nothing when the model call or response parsing fails, so the batch
// is re-selected on the next invocation.
func (p *L1Processor) ProcessPending(ctx context.Context, batchSize int) (int, error) {
	items, err := p.store.SelectByStatus(ctx, domain.StatusPending, batchSize)
	if err != nil {
		return 0, fmt.Errorf("select pending: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	p.logger.Info("triage batch", "items", len(items))

	var list strings.Builder
	for i, item := range items {
		fmt.Fprintf(&list, "%d. %s (%s)\n", i+1, item.Title, item.SourceName)
	}

	messages := []ports.Message{
		{Role: "system", Content: l1SystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Here is the list of news items to filter:\n\n%s\nPlease output the JSON object as specified.", list.String())},
	}

	text, err := p.chat.Complete(ctx, messages, p.model, true)
	if err != nil {
		return 0, fmt.Errorf("triage model call: %w", err)
	}

	var categories map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFence(text)), &categories); err != nil {
		return 0, fmt.Errorf("parse triage response: %w", err)
	}

	matcher := p.newMatcher(items)

	// Category keys are walked in sorted order so a retried batch
	// reconciles identically.
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, category := range keys {
		var entries []l1Entry
		if err := json.Unmarshal(categories[category], &entries); err != nil {
			// Non-array values (counts, notes) are ignored.
			continue
		}
		for _, entry := range entries {
			p.applyEntry(ctx, matcher, category, entry)
		}
	}

	// Records the model did not mention are filtered so they cannot
	// linger pending forever.
	for _, id := range matcher.Unmatched() {
		if err := p.store.UpdateL1(ctx, id, 0, "Implicitly filtered", domain.StatusFiltered); err != nil {
			p.logger.Error("implicit filter update failed", "id", id, "error", err)
		}
	}

	return len(items), nil
}

func (p *L1Processor) applyEntry(ctx context.Context, matcher match.Matcher, category string, entry l1Entry) {
	id, ok := matcher.Match(entry.Title)
	if !ok {
		p.logger.Debug("triage entry matched nothing", "title", entry.Title, "category", category)
		return
	}

	score := int(entry.Score)
	status := domain.StatusFiltered
	if score >= p.threshold {
		status = domain.StatusL1Done
	}
	reason := fmt.Sprintf("Category: %s. Context: %s", category, entry.Context)

	if err := p.store.UpdateL1(ctx, id, score, reason, status); err != nil {
		p.logger.Error("triage update failed", "id", id, "error", err)
		return
	}
	p.logger.Debug("triage verdict", "id", id, "score", score, "status", status)
}
