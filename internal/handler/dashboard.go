package handler

import (
	"net/http"
	"strconv"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/session"
	"github.com/kipcodes/tweet-manager/internal/tweet"
	"github.com/kipcodes/tweet-manager/internal/twitter"
	"github.com/kipcodes/tweet-manager/internal/user"
)

// PageSize is how many tweets the dashboard shows per page.
const PageSize = 20

// HandleDashboard lists the user's recent tweets. Paging is cursor-based: the
// session remembers the oldest id seen so "older" pages ask the platform for
// everything strictly before it. Page 1 always starts from the newest tweet.
func HandleDashboard(sessions *session.Manager, users user.Service, tweets tweet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		u, sess, err := currentUser(r.Context(), users)
		if err != nil {
			redirect(w, r, "/")
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		var before int64
		if page > 1 {
			before = sess.OldestSeenID
		}

		creds := twitter.Credentials{Token: u.AccessToken, Secret: u.AccessTokenSecret}
		statuses, err := tweets.ListRecent(r.Context(), creds, PageSize, before)
		if err != nil {
			log.Error("timeline fetch failed", "error", err)
			msg := flashForError(err)
			if msg == FlashMsgGenericError {
				msg = FlashMsgDashboardUnavailable
			}
			sessions.AddFlash(r.Context(), sess, domain.FlashError, msg)
			redirect(w, r, "/")
			return
		}

		if len(statuses) > 0 {
			sess.OldestSeenID = statuses[len(statuses)-1].ID
			if err := sessions.Save(r.Context(), sess); err != nil {
				log.Warn("saving pagination cursor failed", "error", err)
			}
		}

		render(w, r, "dashboard.html", pageData{
			User:     u,
			Flashes:  sessions.PopFlashes(r.Context(), sess),
			Statuses: statuses,
			Page:     page,
			NextPage: page + 1,
			HasNext:  len(statuses) == PageSize,
		})
	}
}
