package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/repository"
)

const (
	cookieName = "session"

	// DefaultTTL is how long an idle browser session stays valid.
	DefaultTTL = 7 * 24 * time.Hour

	tokenBytes = 32
)

type ctxKey struct{}

// Manager owns browser sessions: random bearer token in the cookie, row in
// the store keyed by an HMAC of that token so a leaked database dump cannot
// be replayed as cookies.
type Manager struct {
	store  repository.Session
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager creates a Manager signing session ids with secretKey.
func NewManager(store repository.Session, secretKey string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:  store,
		secret: []byte(secretKey),
		ttl:    ttl,
		secure: secure,
	}
}

// sessionID derives the store key from the cookie token.
func (m *Manager) sessionID(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Ensure returns the request's session, creating a fresh anonymous one (and
// setting the cookie) when there is none or the existing one expired.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		sess, err := m.lookup(r.Context(), cookie.Value)
		if err == nil {
			return sess, nil
		}
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        m.sessionID(token),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(r.Context(), sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	m.setCookie(w, token, sess.ExpiresAt)
	return sess, nil
}

// lookup resolves a cookie token to a live session, lazily deleting it when
// expired.
func (m *Manager) lookup(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := m.store.Get(ctx, m.sessionID(token))
	if err != nil {
		return nil, err
	}
	if sess.Expired(time.Now()) {
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			logger.FromContext(ctx).Warn("Failed to delete expired session", "error", err)
		}
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Save persists session mutations (user binding, handshake token, cursor).
func (m *Manager) Save(ctx context.Context, sess *domain.Session) error {
	return m.store.Update(ctx, sess)
}

// Destroy deletes the session row and clears the cookie (logout).
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *domain.Session) error {
	m.deleteCookie(w)
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// AddFlash queues a one-shot message for the next rendered page.
func (m *Manager) AddFlash(ctx context.Context, sess *domain.Session, level, message string) {
	sess.Flashes = append(sess.Flashes, domain.Flash{Level: level, Message: message})
	if err := m.store.Update(ctx, sess); err != nil {
		logger.FromContext(ctx).Warn("Failed to persist flash message", "error", err)
	}
}

// PopFlashes returns the queued messages and clears them.
func (m *Manager) PopFlashes(ctx context.Context, sess *domain.Session) []domain.Flash {
	if len(sess.Flashes) == 0 {
		return nil
	}
	flashes := sess.Flashes
	sess.Flashes = nil
	if err := m.store.Update(ctx, sess); err != nil {
		logger.FromContext(ctx).Warn("Failed to clear flash messages", "error", err)
	}
	return flashes
}

// CleanupExpired removes expired session rows; called opportunistically.
func (m *Manager) CleanupExpired(ctx context.Context) {
	if n, err := m.store.DeleteExpired(ctx, time.Now()); err != nil {
		logger.FromContext(ctx).Warn("Failed to delete expired sessions", "error", err)
	} else if n > 0 {
		logger.FromContext(ctx).Debug("Deleted expired sessions", "count", n)
	}
}

func (m *Manager) setCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	})
}

func (m *Manager) deleteCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext extracts the session placed by the session middleware.
func FromContext(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*domain.Session)
	return sess, ok
}
