package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"NewsDashboard/internal/config"
	"NewsDashboard/internal/domain"
	"NewsDashboard/internal/infrastructure/scheduler"
	"NewsDashboard/internal/ports"
	"NewsDashboard/internal/ranking"
)

// Ingestor pulls all configured sources into the store.
type Ingestor interface {
	FetchAll(ctx context.Context) int
}

// StageOne is the pending-record triage stage.
type StageOne interface {
	ProcessPending(ctx context.Context, batchSize int) (int, error)
}

// StageTwo is the enrichment stage over L1-passed records.
type StageTwo interface {
	ProcessL1Passed(ctx context.Context) (int, error)
}

// OrchestratorDeps wires the cycle orchestrator.
type OrchestratorDeps struct {
	Ingestor Ingestor
	L1       StageOne
	L2       StageTwo
	Store    ports.NewsStore
	Writer   ports.DigestWriter
	Notifier ports.Notifier

	Triage  config.TriageConfig
	Ranking config.RankingConfig
	Fetch   config.FetchConfig

	Logger *slog.Logger

	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Orchestrator drives one fully sequential cycle: ingest, drain L1,
// drain L2, rank the trailing window, emit artifacts, sleep until the
// next aligned interval boundary.
type Orchestrator struct {
	ingestor Ingestor
	l1       StageOne
	l2       StageTwo
	store    ports.NewsStore
	writer   ports.DigestWriter
	notifier ports.Notifier

	triage  config.TriageConfig
	ranking config.RankingConfig
	fetch   config.FetchConfig

	logger *slog.Logger
	now    func() time.Time
}

// NewOrchestrator constructs the cycle driver.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		ingestor: deps.Ingestor,
		l1:       deps.L1,
		l2:       deps.L2,
		store:    deps.Store,
		writer:   deps.Writer,
		notifier: deps.Notifier,
		triage:   deps.Triage,
		ranking:  deps.Ranking,
		fetch:    deps.Fetch,
		logger:   deps.Logger,
		now:      now,
	}
}

// Run executes cycles until the context is cancelled. A failed cycle is
// logged and followed by a fixed backoff; the loop itself never stops
// on data or call errors.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		o.logger.Info("cycle start", "at", o.now().Format("15:04:05"))

		if err := o.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			o.logger.Error("cycle failed", "error", err)
			if err := scheduler.Wait(ctx, o.fetch.Backoff()); err != nil {
				return err
			}
			continue
		}

		delay := scheduler.AlignedDelay(o.now(), o.fetch.Interval())
		o.logger.Info("cycle complete", "next_run_in", delay.Round(time.Second))
		if err := scheduler.Wait(ctx, delay); err != nil {
			return err
		}
	}
}

// RunCycle performs a single pass. Ingestion completes before any L1
// work begins, and L1 is drained to exhaustion before any L2 work, so
// the two stages never race for the same record.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	added := o.ingestor.FetchAll(ctx)
	o.logger.Info("ingestion complete", "new_items", added)

	o.drainL1(ctx)
	o.drainL2(ctx)

	since := o.now().Add(-time.Duration(o.ranking.WindowHours) * time.Hour)
	records, err := o.store.SelectProcessedSince(ctx, since)
	if err != nil {
		return fmt.Errorf("select ranking window: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	digest := o.BuildDigest(records)
	o.preview(digest)

	if err := o.writer.Write(ctx, digest); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}

	if o.notifier != nil {
		if err := o.notifier.PublishDigest(ctx, topSummary(digest.Top)); err != nil {
			o.logger.Warn("notify failed", "error", err)
		}
	}

	return nil
}

// drainL1 calls the triage stage until it reports an empty batch, a
// failure, or the per-cycle batch cap. A failed batch stays pending and
// is retried next cycle.
func (o *Orchestrator) drainL1(ctx context.Context) {
	for i := 0; o.triage.MaxL1Batches <= 0 || i < o.triage.MaxL1Batches; i++ {
		count, err := o.l1.ProcessPending(ctx, o.triage.L1BatchSize)
		if err != nil {
			o.logger.Warn("triage drain stopped", "error", err)
			return
		}
		if count == 0 {
			return
		}
	}
}

// drainL2 mirrors drainL1 for the enrichment stage. The cap also guards
// against a model that keeps answering without matching anything.
func (o *Orchestrator) drainL2(ctx context.Context) {
	for i := 0; o.triage.MaxL2Batches <= 0 || i < o.triage.MaxL2Batches; i++ {
		count, err := o.l2.ProcessL1Passed(ctx)
		if err != nil {
			o.logger.Warn("enrichment drain stopped", "error", err)
			return
		}
		if count == 0 {
			return
		}
	}
}

// BuildDigest computes decayed scores for the window records and
// assembles the artifact, sorted by descending gravity score. The sort
// is stable: ties keep store order.
func (o *Orchestrator) BuildDigest(records []domain.NewsRecord) domain.Digest {
	now := o.now()

	items := make([]domain.DigestItem, 0, len(records))
	for _, rec := range records {
		items = append(items, domain.DigestItem{
			NewsRecord:   rec,
			PublishedAt:  rec.PublishedAt.Unix(),
			FetchedAt:    rec.FetchedAt.Unix(),
			GravityScore: ranking.GravityScore(float64(rec.L2Score), rec.PublishedAt, o.ranking.Gravity, now),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].GravityScore > items[j].GravityScore
	})

	topN := o.ranking.TopN
	if topN > len(items) {
		topN = len(items)
	}
	top := make([]domain.TopItem, 0, topN)
	for _, item := range items[:topN] {
		top = append(top, domain.TopItem{
			Title: item.DisplayTitle(),
			Meta:  ranking.TimeAgo(item.NewsRecord.PublishedAt, now),
		})
	}

	return domain.Digest{
		GeneratedAt:    now.Unix(),
		GeneratedAtStr: now.Format(time.RFC3339),
		Config: domain.DigestConfig{
			Gravity:     o.ranking.Gravity,
			WindowHours: o.ranking.WindowHours,
		},
		Items: items,
		Top:   top,
	}
}

func (o *Orchestrator) preview(digest domain.Digest) {
	limit := 10
	if limit > len(digest.Items) {
		limit = len(digest.Items)
	}
	for _, item := range digest.Items[:limit] {
		o.logger.Info("top news",
			"gravity", fmt.Sprintf("%.1f", item.GravityScore),
			"score", item.L2Score,
			"title", item.DisplayTitle(),
			"url", item.NewsRecord.URL)
	}
}

func topSummary(top []domain.TopItem) string {
	var out string
	for _, item := range top {
		out += fmt.Sprintf("- %s (%s)\n", item.Title, item.Meta)
	}
	return out
}
