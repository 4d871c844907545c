package handler

import (
	"net/http"

	"github.com/kipcodes/tweet-manager/internal/session"
	"github.com/kipcodes/tweet-manager/internal/user"
)

// HandleHome renders the landing page with the signed-in account, if any.
func HandleHome(sessions *session.Manager, users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{}
		if u, sess, err := currentUser(r.Context(), users); err == nil {
			data.User = u
			data.Flashes = sessions.PopFlashes(r.Context(), sess)
		} else if sess != nil {
			data.Flashes = sessions.PopFlashes(r.Context(), sess)
		}
		render(w, r, "index.html", data)
	}
}
