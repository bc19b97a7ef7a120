package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"twitterai/pkg/auth"
	"twitterai/pkg/config"
	errs "twitterai/pkg/errors"
	"twitterai/pkg/logger"
)

// Client is the platform API client. It authenticates with the session
// cookies and returns classified errors so callers can apply the
// retry/containment policy without inspecting HTTP details.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	probeUser  string
	logger     logger.Logger
}

// NewClient creates a platform client bound to a session
func NewClient(cfg *config.TwitterConfig, sess *auth.Session, log logger.Logger) *Client {
	if log == nil {
		log = logger.Get()
	}

	headers := map[string]string{
		"User-Agent":      cfg.UserAgent,
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9",
	}
	if sess != nil {
		headers["Cookie"] = sess.CookieHeader()
		if ct0, ok := sess.Cookies["ct0"]; ok {
			headers["x-csrf-token"] = ct0
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers:    headers,
		baseURL:    cfg.BaseURL,
		probeUser:  cfg.ProbeUsername,
		logger:     log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Verify confirms the session is accepted by making a probe request.
// Any failure here is an auth failure: without a working session the run
// cannot produce data.
func (c *Client) Verify(ctx context.Context) error {
	user, err := c.GetUser(ctx, c.probeUser)
	if err != nil {
		return errs.Newf(errs.ErrorTypeAuth, "session validation failed: %v", err)
	}

	c.logger.InfoWithFields("authenticated successfully", map[string]interface{}{
		"probe_user": user.ScreenName,
	})
	return nil
}

// GetUser resolves a username to a profile
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, UserShowURL(c.baseURL, username), &user); err != nil {
		return nil, err
	}
	if user.Suspended {
		return nil, errs.Newf(errs.ErrorTypeNotFound, "account @%s is suspended", username)
	}
	if user.Protected {
		return nil, errs.Newf(errs.ErrorTypeNotFound, "account @%s is protected", username)
	}
	return &user, nil
}

// GetUserTweets fetches up to count recent tweets for a user ID,
// newest-first as the platform returns them.
func (c *Client) GetUserTweets(ctx context.Context, userID string, count int) ([]TweetItem, error) {
	var tweets []TweetItem
	if err := c.getJSON(ctx, UserTweetsURL(c.baseURL, userID, count), &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

// getJSON performs a GET request and decodes the JSON response,
// classifying transport and status failures.
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":   req.URL.String(),
			"error": err.Error(),
		})
		return errs.Newf(errs.ErrorTypeNetwork, "network error: %v", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode != http.StatusOK {
		return errs.FromStatusCode(resp.StatusCode, readErrorMessage(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errs.Newf(errs.ErrorTypeValidation, "failed to decode response: %v", err)
	}
	return nil
}

// readErrorMessage extracts the platform's error message, falling back to
// the raw body when the envelope doesn't parse.
func readErrorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil || len(body) == 0 {
		return fmt.Sprintf("server returned status %d", resp.StatusCode)
	}

	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		return envelope.Errors[0].Message
	}
	return string(body)
}
