package source

import (
	"context"
	"log/slog"

	"NewsDashboard/internal/ports"
)

// Manager fetches every configured source and stores new items.
type Manager struct {
	sources []ports.NewsSource
	store   ports.NewsStore
	logger  *slog.Logger
}

// NewManager wires sources against the record store.
func NewManager(sources []ports.NewsSource, store ports.NewsStore, logger *slog.Logger) *Manager {
	return &Manager{sources: sources, store: store, logger: logger}
}

// FetchAll pulls each source in turn and inserts its items as pending
// records. A source that fails is logged and skipped; the rest continue.
// Returns the number of newly accepted records.
func (m *Manager) FetchAll(ctx context.Context) int {
	added := 0
	for _, src := range m.sources {
		items, err := src.Fetch(ctx)
		if err != nil {
			m.logger.Warn("source fetch failed", "source", src.Name(), "error", err)
			continue
		}

		for _, item := range items {
			inserted, err := m.store.InsertIfAbsent(ctx, item)
			if err != nil {
				m.logger.Warn("insert failed", "source", src.Name(), "url", item.URL, "error", err)
				continue
			}
			if inserted {
				added++
			}
		}
		m.logger.Debug("source fetched", "source", src.Name(), "items", len(items))
	}
	return added
}
