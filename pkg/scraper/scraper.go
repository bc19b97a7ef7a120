package scraper

import (
	"context"

	"twitterai/pkg/config"
	errs "twitterai/pkg/errors"
	"twitterai/pkg/logger"
	"twitterai/pkg/models"
	"twitterai/pkg/ratelimit"
	"twitterai/pkg/retry"
	"twitterai/pkg/twitter"
)

// PlatformClient is the platform API surface the scraper needs
type PlatformClient interface {
	GetUser(ctx context.Context, username string) (*twitter.User, error)
	GetUserTweets(ctx context.Context, userID string, count int) ([]twitter.TweetItem, error)
}

// Scraper turns roster accounts into bounded tweet lists. Per-account
// failures are contained here: the roster loop always runs to completion
// and every account yields a result entry.
type Scraper struct {
	client PlatformClient
	pacer  ratelimit.Limiter
	cfg    *config.ScrapeConfig
	logger logger.Logger
}

// New creates a Scraper
func New(client PlatformClient, cfg *config.ScrapeConfig, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.Get()
	}
	return &Scraper{
		client: client,
		pacer:  ratelimit.NewPacer(cfg.AccountDelay),
		cfg:    cfg,
		logger: log,
	}
}

// FetchTweets fetches up to limit recent tweets for one account,
// newest-first, with text sanitized and invariants enforced.
func (s *Scraper) FetchTweets(ctx context.Context, username string, limit int) ([]models.Tweet, error) {
	user, err := s.client.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	items, err := s.client.GetUserTweets(ctx, user.ID, limit)
	if err != nil {
		return nil, err
	}

	tweets := make([]models.Tweet, 0, limit)
	for i := range items {
		item := &items[i]
		if item.ID == "" || item.FullText == "" {
			continue
		}

		tweet := models.Tweet{
			ID:        item.ID,
			Text:      models.SanitizeText(item.FullText),
			CreatedAt: item.CreatedAt,
			Likes:     item.FavoriteCount,
			Retweets:  item.RetweetCount,
			Replies:   item.ReplyCount,
			URL:       twitter.TweetURL(username, item.ID),
			IsRetweet: item.IsRetweet(),
			IsReply:   item.IsReply(),
		}

		// A tweet that fails validation after sanitizing is a data-quality
		// problem with that one item, not with the account
		if err := tweet.Validate(); err != nil {
			s.logger.WarnWithFields("dropping malformed tweet", map[string]interface{}{
				"username": username,
				"tweet_id": item.ID,
				"error":    err.Error(),
			})
			continue
		}

		tweets = append(tweets, tweet)
		if len(tweets) >= limit {
			break
		}
	}

	s.logger.InfoWithFields("fetched tweets", map[string]interface{}{
		"username": username,
		"count":    len(tweets),
	})
	return tweets, nil
}

// ScrapeAll iterates the roster in order, pacing between accounts and
// retrying transient faults. Accounts that still fail are skipped with an
// empty tweet list; the loop itself never fails.
func (s *Scraper) ScrapeAll(ctx context.Context, accounts []models.AccountSpec) []models.AccountResult {
	results := make([]models.AccountResult, 0, len(accounts))

	retryCfg := &retry.Config{
		MaxAttempts: s.cfg.MaxRetries + 1,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  s.cfg.RetryBaseDelay,
			Multiplier: 2.0,
		},
		RetryIf: retry.DefaultRetryIf,
		Context: ctx,
		Logger:  s.logger,
	}

	for _, account := range accounts {
		if err := s.pacer.Wait(ctx); err != nil {
			s.logger.WarnWithFields("scrape pacing interrupted", map[string]interface{}{
				"username": account.Username,
				"error":    err.Error(),
			})
			results = append(results, models.NewAccountResult(account, nil))
			continue
		}

		username := account.Username
		tweets, err := retry.DoWithResult(func() ([]models.Tweet, error) {
			return s.FetchTweets(ctx, username, s.cfg.MaxTweetsPerAccount)
		}, retryCfg)

		if err != nil {
			// Contained failure: not-found skips immediately, transient
			// faults land here after exhausting retries. Either way the
			// account gets an empty entry and the run moves on.
			s.logger.WarnWithFields("skipping account", map[string]interface{}{
				"username":   username,
				"error_type": string(errs.TypeOf(err)),
				"error":      err.Error(),
			})
			results = append(results, models.NewAccountResult(account, nil))
			continue
		}

		results = append(results, models.NewAccountResult(account, tweets))
		s.logger.InfoWithFields("processed account", map[string]interface{}{
			"username": username,
			"tweets":   len(tweets),
		})
	}

	return results
}
