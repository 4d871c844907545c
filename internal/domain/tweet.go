package domain

import "time"

// MaxTweetLength is the platform's tweet length limit.
const MaxTweetLength = 280

// Tweet mirrors a tweet created or edited through the app. Tweets posted
// outside the app are never mirrored. The TwitterID is rewritten when a tweet
// is "edited", since the platform edit is a delete plus re-create that yields
// a new id.
type Tweet struct {
	ID        int64     `json:"id"`
	TwitterID string    `json:"twitter_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
