package twitter

// Credentials is the access token/secret pair obtained for a user through the
// three-legged handshake. Every API call is signed with one of these pairs.
type Credentials struct {
	Token  string
	Secret string
}

// StatusUser is the author block embedded in a status payload.
type StatusUser struct {
	ID              int64  `json:"id"`
	IDStr           string `json:"id_str"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url_https"`
}

// Status is a single tweet as returned by the platform. With
// tweet_mode=extended the text lives in full_text; the plain text field is
// kept as a fallback for older payload shapes.
type Status struct {
	ID        int64      `json:"id"`
	IDStr     string     `json:"id_str"`
	FullText  string     `json:"full_text"`
	Text      string     `json:"text"`
	CreatedAt string     `json:"created_at"`
	User      StatusUser `json:"user"`
}

// TextContent returns the tweet text regardless of which field the platform
// populated.
func (s Status) TextContent() string {
	if s.FullText != "" {
		return s.FullText
	}
	return s.Text
}

// Account is the response of the credential-verification call.
type Account struct {
	ID              int64  `json:"id"`
	IDStr           string `json:"id_str"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url_https"`
}
