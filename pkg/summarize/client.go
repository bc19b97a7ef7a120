package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"twitterai/pkg/config"
	errs "twitterai/pkg/errors"
	"twitterai/pkg/logger"
	"twitterai/pkg/models"
	"twitterai/pkg/ratelimit"
	"twitterai/pkg/retry"
)

const (
	// FallbackSummary replaces summaries the service could not produce
	FallbackSummary = "AI摘要暂时不可用"
	// NoTweetsSummary marks accounts that had nothing to summarize
	NoTweetsSummary = "该账号今日暂无推文"
)

// Client produces one-sentence digests through the Gemini API. One request
// per account, never per tweet: the request count is the cost constraint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
	cfg        *config.SummarizeConfig
	pacer      ratelimit.Limiter
	logger     logger.Logger
}

// NewClient builds a summarization client from configuration
func NewClient(gemini *config.GeminiConfig, cfg *config.SummarizeConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.Get()
	}
	return &Client{
		httpClient: &http.Client{Timeout: gemini.Timeout},
		endpoint:   gemini.Endpoint,
		model:      gemini.Model,
		apiKey:     gemini.APIKey,
		cfg:        cfg,
		pacer:      ratelimit.NewPacer(cfg.CallDelay),
		logger:     log,
	}
}

// generateRequest is the Gemini generateContent request body
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the Gemini response the client reads
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize produces the digest for one account's tweets. It never returns
// an error: a request that fails after the retry budget, an empty response,
// and an implausibly short response all collapse to the fallback sentinel.
func (c *Client) Summarize(ctx context.Context, tweets []models.Tweet, username string) string {
	if len(tweets) == 0 {
		return NoTweetsSummary
	}

	prompt := BuildPrompt(tweets, username)

	retryCfg := &retry.Config{
		MaxAttempts: c.cfg.MaxRetries + 1,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  c.cfg.RetryBaseDelay,
			Multiplier: 2.0,
		},
		RetryIf: retry.DefaultRetryIf,
		Context: ctx,
		Logger:  c.logger,
	}

	summary, err := retry.DoWithResult(func() (string, error) {
		return c.generate(ctx, prompt)
	}, retryCfg)

	if err != nil {
		// Quota exhaustion and malformed responses differ in the log but
		// collapse to the same fallback
		c.logger.WarnWithFields("summary generation failed, using fallback", map[string]interface{}{
			"username":   username,
			"error_type": string(errs.TypeOf(err)),
			"error":      err.Error(),
		})
		return FallbackSummary
	}

	summary = strings.TrimSpace(summary)
	if utf8.RuneCountInString(summary) < c.cfg.MinSummaryLength {
		c.logger.WarnWithFields("implausibly short summary, using fallback", map[string]interface{}{
			"username": username,
			"summary":  summary,
		})
		return FallbackSummary
	}

	c.logger.InfoWithFields("generated summary", map[string]interface{}{
		"username": username,
		"length":   utf8.RuneCountInString(summary),
	})
	return summary
}

// SummarizeAll fills in the digest for every account in roster order.
// Accounts the scrape stage skipped still get a pass, so the record shape
// is uniform regardless of upstream partial failure.
func (c *Client) SummarizeAll(ctx context.Context, record *models.RunRecord) {
	for i := range record.Accounts {
		account := &record.Accounts[i]

		c.logger.InfoWithFields("summarizing account", map[string]interface{}{
			"username": account.Username,
			"position": fmt.Sprintf("%d/%d", i+1, len(record.Accounts)),
		})

		account.AISummary = c.Summarize(ctx, account.Tweets, account.Username)

		// Pace between API calls, not after the last one
		if i < len(record.Accounts)-1 {
			if err := c.pacer.Wait(ctx); err != nil {
				c.logger.WarnWithFields("summarize pacing interrupted", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// generate issues one generateContent request and extracts the text
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errs.New(errs.ErrorTypeAuth, "gemini api key is not set")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", errs.Newf(errs.ErrorTypeUnknown, "marshal request: %v", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errs.Newf(errs.ErrorTypeUnknown, "new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.Newf(errs.ErrorTypeNetwork, "network error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", errs.FromStatusCode(resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errs.Newf(errs.ErrorTypeValidation, "decode response: %v", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errs.New(errs.ErrorTypeValidation, "response has no candidates")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", errs.New(errs.ErrorTypeValidation, "response text is empty")
	}
	return text, nil
}
