package handler

import (
	"fmt"
	"net/http"

	"github.com/kipcodes/tweet-manager/internal/auth"
	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/session"
	"github.com/kipcodes/tweet-manager/internal/user"
)

// HandleLogin starts the three-legged handshake and sends the browser to the
// platform's authorization page.
func HandleLogin(sessions *session.Manager, broker *auth.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := session.FromContext(r.Context())
		if !ok {
			redirect(w, r, "/")
			return
		}

		pending, authURL, err := broker.BeginLogin(r.Context())
		if err != nil {
			log.Error("handshake start failed", "error", err)
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgLoginFailed)
			redirect(w, r, "/")
			return
		}

		sess.RequestToken = pending.Token
		sess.RequestSecret = pending.Secret
		if err := sessions.Save(r.Context(), sess); err != nil {
			log.Error("saving handshake state failed", "error", err)
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgLoginFailed)
			redirect(w, r, "/")
			return
		}

		redirect(w, r, authURL)
	}
}

// HandleCallback finishes the handshake: exchanges the verifier for access
// credentials, upserts the account, and binds it to the session.
func HandleCallback(sessions *session.Manager, broker *auth.Broker, users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, ok := session.FromContext(r.Context())
		if !ok {
			redirect(w, r, "/")
			return
		}

		pending := auth.RequestToken{Token: sess.RequestToken, Secret: sess.RequestSecret}
		verifier := r.URL.Query().Get("oauth_verifier")

		// The pending token is single-use: whatever happens next, this
		// handshake is over.
		clearPending := func() {
			sess.RequestToken = ""
			sess.RequestSecret = ""
			if err := sessions.Save(r.Context(), sess); err != nil {
				log.Warn("clearing handshake state failed", "error", err)
			}
		}

		if r.URL.Query().Get("denied") != "" {
			clearPending()
			sessions.AddFlash(r.Context(), sess, domain.FlashWarning, FlashMsgLoginDenied)
			redirect(w, r, "/")
			return
		}

		profile, creds, err := broker.CompleteLogin(r.Context(), pending, verifier)
		if err != nil {
			log.Error("handshake completion failed", "error", err)
			clearPending()
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgLoginFailed)
			redirect(w, r, "/")
			return
		}

		u, err := users.LoginUpsert(r.Context(), profile, creds)
		if err != nil {
			log.Error("login upsert failed", "error", err)
			clearPending()
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgLoginFailed)
			redirect(w, r, "/")
			return
		}

		sess.UserID = u.ID
		sess.RequestToken = ""
		sess.RequestSecret = ""
		sess.OldestSeenID = 0
		if err := sessions.Save(r.Context(), sess); err != nil {
			log.Error("binding user to session failed", "error", err)
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgLoginFailed)
			redirect(w, r, "/")
			return
		}

		sessions.AddFlash(r.Context(), sess, domain.FlashSuccess, fmt.Sprintf("Welcome, @%s!", u.Username))
		redirect(w, r, "/dashboard")
	}
}

// HandleLogout drops the session and starts a fresh anonymous one so the
// goodbye flash has somewhere to live.
func HandleLogout(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if sess, ok := session.FromContext(r.Context()); ok {
			if err := sessions.Destroy(r.Context(), w, sess); err != nil {
				log.Warn("destroying session failed", "error", err)
			}
		}

		if fresh, err := sessions.Ensure(w, r); err == nil {
			sessions.AddFlash(r.Context(), fresh, domain.FlashSuccess, FlashMsgLoggedOut)
		}
		redirect(w, r, "/")
	}
}
