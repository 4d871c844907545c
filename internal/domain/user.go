package domain

import "time"

// User is a locally persisted account for someone who has authorized the app.
// One row per Twitter account, keyed by the platform's id; credentials and
// profile fields are refreshed on every login.
type User struct {
	ID                int64     `json:"id"`
	TwitterID         string    `json:"twitter_id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	ProfileImage      string    `json:"profile_image"`
	AccessToken       string    `json:"-"`
	AccessTokenSecret string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	LastLogin         time.Time `json:"last_login"`
}

// Profile is the subset of account data returned by the platform's
// credential-verification call.
type Profile struct {
	TwitterID    string
	Username     string
	DisplayName  string
	ProfileImage string
}
