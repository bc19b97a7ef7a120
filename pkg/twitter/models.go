package twitter

// User represents a platform user profile as returned by the API
type User struct {
	ID         string `json:"id_str"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
	Protected  bool   `json:"protected"`
	Suspended  bool   `json:"suspended"`
}

// TweetItem represents a single tweet as returned by the API
type TweetItem struct {
	ID              string `json:"id_str"`
	FullText        string `json:"full_text"`
	CreatedAt       string `json:"created_at"`
	FavoriteCount   int    `json:"favorite_count"`
	RetweetCount    int    `json:"retweet_count"`
	ReplyCount      int    `json:"reply_count"`
	Retweeted       *struct {
		ID string `json:"id_str"`
	} `json:"retweeted_status,omitempty"`
	InReplyToStatus string `json:"in_reply_to_status_id_str"`
}

// IsRetweet reports whether the item wraps another tweet
func (t *TweetItem) IsRetweet() bool {
	return t.Retweeted != nil
}

// IsReply reports whether the item answers another tweet
func (t *TweetItem) IsReply() bool {
	return t.InReplyToStatus != ""
}

// apiError is the error envelope the platform returns on failures
type apiError struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}
