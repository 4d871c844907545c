package handler

import (
	"context"
	"net/http"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/session"
	"github.com/kipcodes/tweet-manager/internal/user"
)

// SessionMiddleware resolves or creates the browser session and stashes it in
// the request context. Requests that cannot get a session proceed without one;
// handlers treat that the same as being anonymous.
func SessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Ensure(w, r)
			if err != nil {
				logger.FromContext(r.Context()).Error("session setup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireAuth guards the post-management routes. Anonymous visitors get a
// warning flash and land back on the home page without any mutation running.
func RequireAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.Authenticated() {
				if ok {
					sessions.AddFlash(r.Context(), sess, domain.FlashWarning, FlashMsgLoginRequired)
				}
				redirect(w, r, "/")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentUser loads the account bound to the request's session. Anonymous
// requests get domain.ErrNotAuthenticated; the session is returned either way
// so callers can still flash at it.
func currentUser(ctx context.Context, users user.Service) (*domain.User, *domain.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok || !sess.Authenticated() {
		return nil, sess, domain.ErrNotAuthenticated
	}
	u, err := users.GetByID(ctx, sess.UserID)
	if err != nil {
		logger.FromContext(ctx).Warn("session points at unknown user", "user_id", sess.UserID, "error", err)
		return nil, sess, err
	}
	return u, sess, nil
}
