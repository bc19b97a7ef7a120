package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 20, cfg.Scrape.MaxTweetsPerAccount)
	assert.Equal(t, 2*time.Second, cfg.Scrape.AccountDelay)
	assert.Equal(t, 3, cfg.Scrape.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Scrape.RetryBaseDelay)
	assert.Equal(t, 1*time.Second, cfg.Summarize.CallDelay)
	assert.Equal(t, 1, cfg.Summarize.MaxRetries)
	assert.Equal(t, 5, cfg.Summarize.MinSummaryLength)
	assert.Equal(t, 7*24*time.Hour, cfg.Twitter.SessionMaxAge)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MAX_TWEETS_PER_ACCOUNT", "10")
	t.Setenv("RATE_LIMIT_DELAY", "5")
	t.Setenv("TWITTERAI_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, 10, cfg.Scrape.MaxTweetsPerAccount)
	assert.Equal(t, 5*time.Second, cfg.Scrape.AccountDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidNumber(t *testing.T) {
	t.Setenv("MAX_TWEETS_PER_ACCOUNT", "plenty")

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
scrape:
  max_tweets_per_account: 5
  account_delay: 3s
gemini:
  model: gemini-test
output:
  data_dir: /tmp/data
  export_dir: /tmp/output
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 5, cfg.Scrape.MaxTweetsPerAccount)
	assert.Equal(t, 3*time.Second, cfg.Scrape.AccountDelay)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
	assert.Equal(t, "/tmp/data", cfg.Output.DataDir)
	// Untouched sections keep defaults
	assert.Equal(t, "accounts.json", cfg.Roster.File)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"missing base URL", func(c *Config) { c.Twitter.BaseURL = "" }, true},
		{"missing session file", func(c *Config) { c.Twitter.SessionFile = "" }, true},
		{"zero session max age", func(c *Config) { c.Twitter.SessionMaxAge = 0 }, true},
		{"missing model", func(c *Config) { c.Gemini.Model = "" }, true},
		{"zero tweet limit", func(c *Config) { c.Scrape.MaxTweetsPerAccount = 0 }, true},
		{"negative retries", func(c *Config) { c.Scrape.MaxRetries = -1 }, true},
		{"zero min summary length", func(c *Config) { c.Summarize.MinSummaryLength = 0 }, true},
		{"missing roster file", func(c *Config) { c.Roster.File = "" }, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
