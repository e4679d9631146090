package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minhtran99/jobflow/internal/enrich"
)

// knownSources are the boards a collector exists for.
var knownSources = map[string]bool{
	"topcv":      true,
	"careerviet": true,
	"vieclam24h": true,
}

// Config is the root configuration for the jobflow collector.
type Config struct {
	Query            string
	ScheduleInterval time.Duration
	Sources          []SourceConfig
	Scrape           ScrapeConfig
	RateLimit        RateLimitConfig
	Retry            RetryConfig
	Relevance        RelevanceConfig
	Store            StoreConfig
	Notification     NotificationConfig
	Skills           []enrich.SkillDef
}

// SourceConfig describes a single job board to collect from.
type SourceConfig struct {
	Name       string `yaml:"name"`
	Enabled    bool   `yaml:"enabled"`
	BaseURL    string `yaml:"base_url"` // override for testing, empty means production
	MaxPages   int    `yaml:"max_pages"`
	MaxResults int    `yaml:"max_results"`
}

// ScrapeConfig bounds the collection phase.
type ScrapeConfig struct {
	PerSourceTimeout time.Duration // wall-clock budget per source per run
	RequestTimeout   time.Duration // single HTTP request timeout
}

// RateLimitConfig controls board-level rate limiting.
type RateLimitConfig struct {
	MinDelay        time.Duration            // minimum gap between requests to the same board
	SourceOverrides map[string]time.Duration // per-board overrides, keyed by source name
}

// MinDelayFor returns the configured delay for the given source, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.SourceOverrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// RetryConfig controls per-page retry behavior.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// RelevanceConfig controls the optional embedding-based relevance scoring.
type RelevanceConfig struct {
	Enabled          bool
	BaseURL          string        // defaults to https://api.openai.com/v1
	Model            string        // embedding model identifier
	APIKey           string        // expanded from env var by Load
	Threshold        float64       // cosine similarity cutoff
	KeywordThreshold float64       // keyword overlap cutoff on the fallback path
	Timeout          time.Duration // per-request timeout
}

// StoreConfig points at the SQLite database file.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Query            string             `yaml:"query"`
	ScheduleInterval string             `yaml:"schedule_interval"`
	Sources          []SourceConfig     `yaml:"sources"`
	Scrape           rawScrapeConfig    `yaml:"scrape"`
	RateLimit        rawRateLimitConfig `yaml:"rate_limit"`
	Retry            rawRetryConfig     `yaml:"retry"`
	Relevance        rawRelevanceConfig `yaml:"relevance"`
	Store            StoreConfig        `yaml:"store"`
	Notification     NotificationConfig `yaml:"notification"`
	Skills           []rawSkillDef      `yaml:"skills"`
}

type rawScrapeConfig struct {
	PerSourceTimeout string `yaml:"per_source_timeout"`
	RequestTimeout   string `yaml:"request_timeout"`
}

type rawRateLimitConfig struct {
	MinDelay        string            `yaml:"min_delay"`
	SourceOverrides map[string]string `yaml:"source_overrides"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
	MaxDelay   string `yaml:"max_delay"`
}

type rawRelevanceConfig struct {
	Enabled          bool    `yaml:"enabled"`
	BaseURL          string  `yaml:"base_url"`
	Model            string  `yaml:"model"`
	APIKey           string  `yaml:"api_key"`
	Threshold        float64 `yaml:"threshold"`
	KeywordThreshold float64 `yaml:"keyword_threshold"`
	Timeout          string  `yaml:"timeout"`
}

type rawSkillDef struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval := 6 * time.Hour // default for watch mode
	if raw.ScheduleInterval != "" {
		interval, err = time.ParseDuration(raw.ScheduleInterval)
		if err != nil {
			return nil, fmt.Errorf("parse schedule_interval %q: %w", raw.ScheduleInterval, err)
		}
	}

	perSourceTimeout, err := durationOr(raw.Scrape.PerSourceTimeout, 2*time.Minute, "scrape.per_source_timeout")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := durationOr(raw.Scrape.RequestTimeout, 20*time.Second, "scrape.request_timeout")
	if err != nil {
		return nil, err
	}

	minDelay, err := durationOr(raw.RateLimit.MinDelay, 2*time.Second, "rate_limit.min_delay")
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]time.Duration)
	for source, rawDelay := range raw.RateLimit.SourceOverrides {
		d, err := time.ParseDuration(rawDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.source_overrides[%q]: %w", source, err)
		}
		overrides[source] = d
	}

	maxRetries := 3
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}
	baseDelay, err := durationOr(raw.Retry.BaseDelay, 1*time.Second, "retry.base_delay")
	if err != nil {
		return nil, err
	}
	maxDelay, err := durationOr(raw.Retry.MaxDelay, 30*time.Second, "retry.max_delay")
	if err != nil {
		return nil, err
	}

	relevanceTimeout, err := durationOr(raw.Relevance.Timeout, 30*time.Second, "relevance.timeout")
	if err != nil {
		return nil, err
	}
	relevanceBaseURL := raw.Relevance.BaseURL
	if relevanceBaseURL == "" {
		relevanceBaseURL = defaultOpenAIBaseURL
	}

	storePath := raw.Store.Path
	if storePath == "" {
		storePath = "jobflow.db"
	}

	skills := enrich.DefaultSkills()
	if len(raw.Skills) > 0 {
		skills = skills[:0]
		for _, s := range raw.Skills {
			skills = append(skills, enrich.SkillDef{Name: s.Name, Category: s.Category, Keywords: s.Keywords})
		}
	}

	cfg := &Config{
		Query:            raw.Query,
		ScheduleInterval: interval,
		Sources:          raw.Sources,
		Scrape: ScrapeConfig{
			PerSourceTimeout: perSourceTimeout,
			RequestTimeout:   requestTimeout,
		},
		RateLimit: RateLimitConfig{
			MinDelay:        minDelay,
			SourceOverrides: overrides,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
			MaxDelay:   maxDelay,
		},
		Relevance: RelevanceConfig{
			Enabled:          raw.Relevance.Enabled,
			BaseURL:          relevanceBaseURL,
			Model:            raw.Relevance.Model,
			APIKey:           raw.Relevance.APIKey,
			Threshold:        raw.Relevance.Threshold,
			KeywordThreshold: raw.Relevance.KeywordThreshold,
			Timeout:          relevanceTimeout,
		},
		Store:        StoreConfig{Path: storePath},
		Notification: raw.Notification,
		Skills:       skills,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func durationOr(raw string, fallback time.Duration, field string) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.ScheduleInterval <= 0 {
		return fmt.Errorf("schedule_interval must be positive, got %v", cfg.ScheduleInterval)
	}

	enabled := 0
	for _, s := range cfg.Sources {
		if !knownSources[s.Name] {
			return fmt.Errorf("unknown source %q", s.Name)
		}
		if s.MaxPages < 0 || s.MaxResults < 0 {
			return fmt.Errorf("source %q: max_pages and max_results must not be negative", s.Name)
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if len(cfg.Notification.WebhookURL) < len("https://hooks.slack.com/") ||
			cfg.Notification.WebhookURL[:len("https://hooks.slack.com/")] != "https://hooks.slack.com/" {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	if cfg.Relevance.Enabled {
		if cfg.Relevance.APIKey == "" {
			return fmt.Errorf("relevance.api_key is required when relevance.enabled is true")
		}
		if cfg.Relevance.Model == "" {
			return fmt.Errorf("relevance.model is required when relevance.enabled is true")
		}
	}

	for _, s := range cfg.Skills {
		if s.Name == "" || len(s.Keywords) == 0 {
			return fmt.Errorf("every skill needs a name and at least one keyword")
		}
	}

	return nil
}
