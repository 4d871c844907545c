package domain

import "time"

// Flash levels shown to the user on the next rendered page.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot user-visible message consumed on the next render.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the per-browser state row, keyed by a derived cookie id. It
// carries the handshake state while a login is in flight, the logged-in user
// id afterwards, and the dashboard's pagination cursor.
type Session struct {
	ID            string
	UserID        int64 // 0 while anonymous
	RequestToken  string
	RequestSecret string
	OldestSeenID  int64 // oldest tweet id rendered, pagination cursor
	Flashes       []Flash
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Authenticated reports whether a user is bound to the session.
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
