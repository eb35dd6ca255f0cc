package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "news.db", cfg.Database.Path)
	assert.Equal(t, 45, cfg.Triage.PassThreshold)
	assert.Equal(t, 30, cfg.Triage.L1BatchSize)
	assert.Equal(t, 5, cfg.Triage.MaxL1Batches)
	assert.Equal(t, 1.1, cfg.Ranking.Gravity)
	assert.Equal(t, 72, cfg.Ranking.WindowHours)
	assert.Equal(t, 10*time.Minute, cfg.Fetch.Interval())
	assert.Equal(t, time.Minute, cfg.Fetch.Backoff())
	assert.Equal(t, "dashboard.json", cfg.Output.DashboardPath)
	require.NotEmpty(t, cfg.Sources)
	assert.Equal(t, "rss", cfg.Sources[0].Kind)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
triage:
  passThreshold: 60
ranking:
  gravity: 1.5
  windowHours: 48
sources:
  - name: Example Blog
    kind: listing
    url: https://blog.example/news
    selectors:
      item: li.entry
      title: h3
      link: a
`), 0o644))
	t.Setenv(configPathEnv, path)

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 60, cfg.Triage.PassThreshold)
	assert.Equal(t, 1.5, cfg.Ranking.Gravity)
	assert.Equal(t, 48, cfg.Ranking.WindowHours)
	// Untouched sections keep their defaults.
	assert.Equal(t, 30, cfg.Triage.L1BatchSize)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "listing", cfg.Sources[0].Kind)
	assert.Equal(t, "li.entry", cfg.Sources[0].Selectors.Item)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(databasePathEnv, "/tmp/override.db")
	t.Setenv(aiModelL1Env, "cheap-model")
	t.Setenv(l1BatchSizeEnv, "12")
	t.Setenv(gravityEnv, "0.9")
	t.Setenv(rssFeedsEnv, `["https://feeds.example/a.xml","https://feeds.example/b.xml"]`)

	cfg := Load()

	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "cheap-model", cfg.AI.L1Model)
	assert.Equal(t, 12, cfg.Triage.L1BatchSize)
	assert.Equal(t, 0.9, cfg.Ranking.Gravity)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "rss", cfg.Sources[0].Kind)
	assert.Equal(t, "https://feeds.example/a.xml", cfg.Sources[0].URL)
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv(l1BatchSizeEnv, "not-a-number")
	t.Setenv(gravityEnv, "heavy")
	t.Setenv(rssFeedsEnv, "{broken json")

	cfg := Load()

	assert.Equal(t, 30, cfg.Triage.L1BatchSize)
	assert.Equal(t, 1.1, cfg.Ranking.Gravity)
	assert.Len(t, cfg.Sources, 2)
}
