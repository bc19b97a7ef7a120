package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the calendar-date key that identifies one run
const DateLayout = "2006-01-02"

// Timestamp layouts accepted for a tweet's created_at field. The platform
// emits the classic ruby-date format; records written by this pipeline may
// round-trip RFC3339.
var createdAtLayouts = []string{
	time.RubyDate,
	time.RFC3339,
}

// AccountSpec describes one monitored account from the roster.
// Immutable during a run.
type AccountSpec struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
}

// ApplyDefaults fills the optional roster fields: a missing display name
// falls back to the username, a missing category to "uncategorized".
func (a *AccountSpec) ApplyDefaults() {
	if a.DisplayName == "" {
		a.DisplayName = a.Username
	}
	if a.Category == "" {
		a.Category = "uncategorized"
	}
}

// Tweet represents a single scraped post. Created by the scrape stage and
// never mutated afterward.
type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Likes     int    `json:"likes"`
	Retweets  int    `json:"retweets"`
	Replies   int    `json:"replies"`
	URL       string `json:"url"`
	IsRetweet bool   `json:"is_retweet"`
	IsReply   bool   `json:"is_reply"`
}

// Validate checks the tweet invariants: non-empty id, parseable timestamp,
// no control characters in the text.
func (t *Tweet) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tweet id is empty")
	}
	if _, err := ParseCreatedAt(t.CreatedAt); err != nil {
		return fmt.Errorf("tweet %s: %w", t.ID, err)
	}
	for _, r := range t.Text {
		if r != '\n' && unicode.IsControl(r) {
			return fmt.Errorf("tweet %s: text contains control character %U", t.ID, r)
		}
	}
	return nil
}

// ParseCreatedAt parses a tweet timestamp in any accepted layout
func ParseCreatedAt(value string) (time.Time, error) {
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable created_at %q", value)
}

// SanitizeText strips control and null characters from scraped text.
// Newlines survive; everything else in the control range is dropped.
func SanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// AccountResult is one account's slice of a run: the roster fields, the
// scraped tweets newest-first, and the AI summary once the summarize stage
// has filled it in.
type AccountResult struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Category    string  `json:"category"`
	AISummary   string  `json:"ai_summary"`
	Tweets      []Tweet `json:"tweets"`
}

// NewAccountResult creates an empty-summary result for a roster account
func NewAccountResult(spec AccountSpec, tweets []Tweet) AccountResult {
	if tweets == nil {
		tweets = []Tweet{}
	}
	return AccountResult{
		Username:    spec.Username,
		DisplayName: spec.DisplayName,
		Category:    spec.Category,
		Tweets:      tweets,
	}
}

// RunRecord is the single unit of persistence for one scheduled run and the
// sole channel between the scrape, summarize, and export stages. Keyed by
// calendar date; once exported it is append-only history.
type RunRecord struct {
	Date       string          `json:"date"`
	ScrapeTime time.Time       `json:"scrape_time"`
	Accounts   []AccountResult `json:"accounts"`
}

// Validate checks the record shape at the storage boundary, so invalid
// records fail fast at load time instead of propagating.
func (r *RunRecord) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("invalid record date %q: %w", r.Date, err)
	}
	if r.ScrapeTime.IsZero() {
		return fmt.Errorf("record %s: scrape_time is missing", r.Date)
	}
	seen := make(map[string]bool, len(r.Accounts))
	for i := range r.Accounts {
		acc := &r.Accounts[i]
		if acc.Username == "" {
			return fmt.Errorf("record %s: account %d has no username", r.Date, i)
		}
		if seen[acc.Username] {
			return fmt.Errorf("record %s: duplicate account %s", r.Date, acc.Username)
		}
		seen[acc.Username] = true
		for j := range acc.Tweets {
			if err := acc.Tweets[j].Validate(); err != nil {
				return fmt.Errorf("record %s: account %s: %w", r.Date, acc.Username, err)
			}
		}
	}
	return nil
}

// TweetCount returns the total number of tweets across all accounts
func (r *RunRecord) TweetCount() int {
	total := 0
	for i := range r.Accounts {
		total += len(r.Accounts[i].Tweets)
	}
	return total
}
