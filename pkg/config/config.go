package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the pipeline. It is built once
// at startup and passed into every component constructor; nothing reads
// environment state after that.
type Config struct {
	// Twitter platform access
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Gemini summarization service
	Gemini GeminiConfig `yaml:"gemini" json:"gemini"`

	// Scrape stage settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Summarize stage settings
	Summarize SummarizeConfig `yaml:"summarize" json:"summarize"`

	// Artifact output locations
	Output OutputConfig `yaml:"output" json:"output"`

	// Account roster source
	Roster RosterConfig `yaml:"roster" json:"roster"`

	// Scheduled execution
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds platform API access configuration
type TwitterConfig struct {
	BaseURL       string        `yaml:"base_url" json:"base_url"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	SessionFile   string        `yaml:"session_file" json:"session_file"`
	SessionMaxAge time.Duration `yaml:"session_max_age" json:"session_max_age"`
	ProbeUsername string        `yaml:"probe_username" json:"probe_username"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
}

// GeminiConfig holds the summarization service configuration
type GeminiConfig struct {
	APIKey   string        `yaml:"api_key" json:"api_key"`
	Model    string        `yaml:"model" json:"model"`
	Endpoint string        `yaml:"endpoint" json:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// ScrapeConfig holds scrape-stage pacing and retry configuration
type ScrapeConfig struct {
	MaxTweetsPerAccount int           `yaml:"max_tweets_per_account" json:"max_tweets_per_account"`
	AccountDelay        time.Duration `yaml:"account_delay" json:"account_delay"`
	MaxRetries          int           `yaml:"max_retries" json:"max_retries"`
	RetryBaseDelay      time.Duration `yaml:"retry_base_delay" json:"retry_base_delay"`
}

// SummarizeConfig holds summarize-stage pacing and fallback configuration
type SummarizeConfig struct {
	CallDelay        time.Duration `yaml:"call_delay" json:"call_delay"`
	MaxRetries       int           `yaml:"max_retries" json:"max_retries"`
	RetryBaseDelay   time.Duration `yaml:"retry_base_delay" json:"retry_base_delay"`
	MinSummaryLength int           `yaml:"min_summary_length" json:"min_summary_length"`
}

// OutputConfig holds artifact directory configuration
type OutputConfig struct {
	DataDir   string `yaml:"data_dir" json:"data_dir"`
	ExportDir string `yaml:"export_dir" json:"export_dir"`
}

// RosterConfig holds the account roster source configuration
type RosterConfig struct {
	File      string `yaml:"file" json:"file"`
	RemoteURL string `yaml:"remote_url" json:"remote_url"`
	Token     string `yaml:"token" json:"token"`
}

// ScheduleConfig holds the scheduled-run configuration
type ScheduleConfig struct {
	Cron     string `yaml:"cron" json:"cron"`
	Timezone string `yaml:"timezone" json:"timezone"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			BaseURL:       "https://api.x.com/1.1",
			UserAgent:     "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			SessionFile:   ".twitter_session.json",
			SessionMaxAge: 7 * 24 * time.Hour,
			ProbeUsername: "x",
			Timeout:       30 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:    "gemini-2.0-flash",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  30 * time.Second,
		},
		Scrape: ScrapeConfig{
			MaxTweetsPerAccount: 20,
			AccountDelay:        2 * time.Second,
			MaxRetries:          3,
			RetryBaseDelay:      2 * time.Second,
		},
		Summarize: SummarizeConfig{
			CallDelay:        1 * time.Second,
			MaxRetries:       1,
			RetryBaseDelay:   2 * time.Second,
			MinSummaryLength: 5,
		},
		Output: OutputConfig{
			DataDir:   "data",
			ExportDir: "output",
		},
		Roster: RosterConfig{
			File: "accounts.json",
		},
		Schedule: ScheduleConfig{
			Cron:     "0 8,20 * * *",
			Timezone: "Local",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a YAML file, overriding current values
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration overrides from environment variables.
// A .env file in the working directory is honored if present.
func (c *Config) LoadFromEnv() error {
	// Missing .env is fine; explicit environment still applies
	_ = godotenv.Load()

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("TWITTERAI_BASE_URL"); v != "" {
		c.Twitter.BaseURL = v
	}
	if v := os.Getenv("TWITTERAI_SESSION_FILE"); v != "" {
		c.Twitter.SessionFile = v
	}
	if v := os.Getenv("TWITTERAI_DATA_DIR"); v != "" {
		c.Output.DataDir = v
	}
	if v := os.Getenv("TWITTERAI_EXPORT_DIR"); v != "" {
		c.Output.ExportDir = v
	}
	if v := os.Getenv("TWITTERAI_ACCOUNTS_FILE"); v != "" {
		c.Roster.File = v
	}
	if v := os.Getenv("TWITTERAI_ROSTER_URL"); v != "" {
		c.Roster.RemoteURL = v
	}
	if v := os.Getenv("TWITTERAI_ROSTER_TOKEN"); v != "" {
		c.Roster.Token = v
	}
	if v := os.Getenv("TWITTERAI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MAX_TWEETS_PER_ACCOUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_TWEETS_PER_ACCOUNT: %w", err)
		}
		c.Scrape.MaxTweetsPerAccount = n
	}
	if v := os.Getenv("RATE_LIMIT_DELAY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_DELAY: %w", err)
		}
		c.Scrape.AccountDelay = time.Duration(n) * time.Second
	}
	return nil
}

// SessionFromEnv returns the raw session blob exported through the
// environment, used to materialize the session file on CI runners.
func SessionFromEnv() string {
	return os.Getenv("TWITTER_SESSION")
}

// Validate checks the configuration for fatal inconsistencies
func (c *Config) Validate() error {
	if c.Twitter.BaseURL == "" {
		return errors.New("twitter base URL is required")
	}
	if c.Twitter.SessionFile == "" {
		return errors.New("twitter session file path is required")
	}
	if c.Twitter.SessionMaxAge <= 0 {
		return errors.New("twitter session max age must be positive")
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini model is required")
	}
	if c.Gemini.Endpoint == "" {
		return errors.New("gemini endpoint is required")
	}
	if c.Scrape.MaxTweetsPerAccount <= 0 {
		return errors.New("max tweets per account must be positive")
	}
	if c.Scrape.MaxRetries < 0 {
		return errors.New("scrape max retries cannot be negative")
	}
	if c.Summarize.MinSummaryLength <= 0 {
		return errors.New("min summary length must be positive")
	}
	if c.Output.DataDir == "" || c.Output.ExportDir == "" {
		return errors.New("data and export directories are required")
	}
	if c.Roster.File == "" {
		return errors.New("roster file path is required")
	}
	return nil
}

// Load builds the effective configuration: defaults, then the optional
// config file, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
