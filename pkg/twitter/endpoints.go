package twitter

import (
	"fmt"
	"net/url"
)

// UserShowURL builds the endpoint for resolving a username to a profile
func UserShowURL(baseURL, username string) string {
	return fmt.Sprintf("%s/users/show.json?screen_name=%s", baseURL, url.QueryEscape(username))
}

// UserTweetsURL builds the endpoint for a user's recent tweets
func UserTweetsURL(baseURL, userID string, count int) string {
	return fmt.Sprintf("%s/statuses/user_timeline.json?user_id=%s&count=%d&tweet_mode=extended",
		baseURL, url.QueryEscape(userID), count)
}

// TweetURL builds the canonical public link for a tweet
func TweetURL(username, tweetID string) string {
	return fmt.Sprintf("https://x.com/%s/status/%s", username, tweetID)
}
