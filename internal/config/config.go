package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NEWS_DASHBOARD_CONFIG"
	databasePathEnv   = "DB_PATH"
	aiBaseURLEnv      = "AI_BASE_URL"
	aiAPIKeyEnv       = "AI_API_KEY"
	aiModelL1Env      = "AI_MODEL_L1"
	aiModelL2Env      = "AI_MODEL_L2"
	l1BatchSizeEnv    = "L1_BATCH_SIZE"
	l2BatchSizeEnv    = "L2_BATCH_SIZE"
	maxL1LoopsEnv     = "MAX_L1_LOOPS"
	fetchIntervalEnv  = "FETCH_INTERVAL_SECONDS"
	gravityEnv        = "GRAVITY"
	rankingWindowEnv  = "RANKING_WINDOW_HOURS"
	dashboardPathEnv  = "DASHBOARD_OUTPUT_PATH"
	rssFeedsEnv       = "RSS_FEEDS"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	AI            AIConfig           `yaml:"ai"`
	Triage        TriageConfig       `yaml:"triage"`
	Ranking       RankingConfig      `yaml:"ranking"`
	Fetch         FetchConfig        `yaml:"fetch"`
	Output        OutputConfig       `yaml:"output"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes the sqlite file location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AIConfig defines how to contact the OpenAI-compatible endpoint and
// which model handles each triage stage.
type AIConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
	L1Model string `yaml:"l1Model"`
	L2Model string `yaml:"l2Model"`
}

// TriageConfig bounds the two classification stages.
type TriageConfig struct {
	L1BatchSize   int `yaml:"l1BatchSize"`
	L2BatchSize   int `yaml:"l2BatchSize"`
	MaxL1Batches  int `yaml:"maxL1Batches"`
	MaxL2Batches  int `yaml:"maxL2Batches"`
	PassThreshold int `yaml:"passThreshold"`
}

// RankingConfig drives the gravity decay and the display window.
type RankingConfig struct {
	Gravity     float64 `yaml:"gravity"`
	WindowHours int     `yaml:"windowHours"`
	TopN        int     `yaml:"topN"`
}

// FetchConfig controls the cycle cadence.
type FetchConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
	BackoffSeconds  int `yaml:"backoffSeconds"`
}

// Interval returns the cycle interval as a duration.
func (f FetchConfig) Interval() time.Duration {
	return time.Duration(f.IntervalSeconds) * time.Second
}

// Backoff returns the sleep applied after a failed cycle.
func (f FetchConfig) Backoff() time.Duration {
	return time.Duration(f.BackoffSeconds) * time.Second
}

// OutputConfig locates the dashboard artifacts.
type OutputConfig struct {
	DashboardPath string `yaml:"dashboardPath"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SourceConfig describes a single source with its fetch strategy.
type SourceConfig struct {
	Name      string          `yaml:"name"`
	Kind      string          `yaml:"kind"` // "rss" or "listing"
	URL       string          `yaml:"url"`
	Selectors SelectorsConfig `yaml:"selectors"`
}

// SelectorsConfig holds the CSS selectors a listing source scrapes.
type SelectorsConfig struct {
	Item       string `yaml:"item"`
	Title      string `yaml:"title"`
	Link       string `yaml:"link"`
	Time       string `yaml:"time"`
	TimeLayout string `yaml:"timeLayout"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(aiBaseURLEnv); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv(aiAPIKeyEnv); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv(aiModelL1Env); v != "" {
		c.AI.L1Model = v
	}
	if v := os.Getenv(aiModelL2Env); v != "" {
		c.AI.L2Model = v
	}

	if v, ok := intEnv(l1BatchSizeEnv); ok {
		c.Triage.L1BatchSize = v
	}
	if v, ok := intEnv(l2BatchSizeEnv); ok {
		c.Triage.L2BatchSize = v
	}
	if v, ok := intEnv(maxL1LoopsEnv); ok {
		c.Triage.MaxL1Batches = v
	}

	if v, ok := intEnv(fetchIntervalEnv); ok {
		c.Fetch.IntervalSeconds = v
	}
	if v, ok := intEnv(rankingWindowEnv); ok {
		c.Ranking.WindowHours = v
	}
	if v := os.Getenv(gravityEnv); v != "" {
		if g, err := strconv.ParseFloat(v, 64); err != nil {
			log.Printf("config: invalid %s=%q: %v", gravityEnv, v, err)
		} else {
			c.Ranking.Gravity = g
		}
	}

	if v := os.Getenv(dashboardPathEnv); v != "" {
		c.Output.DashboardPath = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	// RSS_FEEDS is a JSON array of feed URLs; when set it replaces the
	// configured source list with plain RSS sources.
	if v := os.Getenv(rssFeedsEnv); v != "" {
		var urls []string
		if err := json.Unmarshal([]byte(v), &urls); err != nil {
			log.Printf("config: cannot parse %s: %v", rssFeedsEnv, err)
		} else if len(urls) > 0 {
			sources := make([]SourceConfig, 0, len(urls))
			for _, u := range urls {
				sources = append(sources, SourceConfig{Name: u, Kind: "rss", URL: u})
			}
			c.Sources = sources
		}
	}
}

func intEnv(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q: %v", name, v, err)
		return 0, false
	}
	return n, true
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.AI.BaseURL != "" {
		base.AI.BaseURL = override.AI.BaseURL
	}
	if override.AI.APIKey != "" {
		base.AI.APIKey = override.AI.APIKey
	}
	if override.AI.L1Model != "" {
		base.AI.L1Model = override.AI.L1Model
	}
	if override.AI.L2Model != "" {
		base.AI.L2Model = override.AI.L2Model
	}

	if override.Triage.L1BatchSize > 0 {
		base.Triage.L1BatchSize = override.Triage.L1BatchSize
	}
	if override.Triage.L2BatchSize > 0 {
		base.Triage.L2BatchSize = override.Triage.L2BatchSize
	}
	if override.Triage.MaxL1Batches > 0 {
		base.Triage.MaxL1Batches = override.Triage.MaxL1Batches
	}
	if override.Triage.MaxL2Batches > 0 {
		base.Triage.MaxL2Batches = override.Triage.MaxL2Batches
	}
	if override.Triage.PassThreshold > 0 {
		base.Triage.PassThreshold = override.Triage.PassThreshold
	}

	if override.Ranking.Gravity > 0 {
		base.Ranking.Gravity = override.Ranking.Gravity
	}
	if override.Ranking.WindowHours > 0 {
		base.Ranking.WindowHours = override.Ranking.WindowHours
	}
	if override.Ranking.TopN > 0 {
		base.Ranking.TopN = override.Ranking.TopN
	}

	if override.Fetch.IntervalSeconds > 0 {
		base.Fetch.IntervalSeconds = override.Fetch.IntervalSeconds
	}
	if override.Fetch.BackoffSeconds > 0 {
		base.Fetch.BackoffSeconds = override.Fetch.BackoffSeconds
	}

	if override.Output.DashboardPath != "" {
		base.Output = override.Output
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{Path: "news.db"},
		AI: AIConfig{
			BaseURL: "https://api.openai.com/v1",
			APIKey:  "",
			L1Model: "gpt-4o-mini",
			L2Model: "gpt-4o",
		},
		Triage: TriageConfig{
			L1BatchSize:   30,
			L2BatchSize:   20,
			MaxL1Batches:  5,
			MaxL2Batches:  10,
			PassThreshold: 45,
		},
		Ranking: RankingConfig{
			Gravity:     1.1,
			WindowHours: 72,
			TopN:        10,
		},
		Fetch: FetchConfig{
			IntervalSeconds: 600,
			BackoffSeconds:  60,
		},
		Output: OutputConfig{DashboardPath: "dashboard.json"},
		Sources: []SourceConfig{
			{Name: "Spaceflight Now", Kind: "rss", URL: "https://spaceflightnow.com/feed/"},
			{Name: "Hacker News", Kind: "rss", URL: "https://hnrss.org/newest?points=100"},
		},
	}
}
