package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/logger"
	"github.com/kipcodes/tweet-manager/internal/session"
	"github.com/kipcodes/tweet-manager/internal/tweet"
	"github.com/kipcodes/tweet-manager/internal/twitter"
	"github.com/kipcodes/tweet-manager/internal/user"
)

// TweetForm is the text submitted by the create and edit forms.
type TweetForm struct {
	Text string `validate:"required,max=280"`
}

// HandleCreateTweetForm renders the compose page.
func HandleCreateTweetForm(sessions *session.Manager, users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, sess, err := currentUser(r.Context(), users)
		if err != nil {
			redirect(w, r, "/")
			return
		}
		render(w, r, "create_tweet.html", pageData{
			User:    u,
			Flashes: sessions.PopFlashes(r.Context(), sess),
		})
	}
}

// HandleCreateTweet posts the submitted text with the app's attribution.
func HandleCreateTweet(sessions *session.Manager, users user.Service, tweets tweet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		u, sess, err := currentUser(r.Context(), users)
		if err != nil {
			redirect(w, r, "/")
			return
		}

		form := TweetForm{Text: r.PostFormValue("text")}
		if err := GetValidator().ValidateStruct(form); err != nil {
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FormatValidationError(err))
			redirect(w, r, "/create-tweet")
			return
		}

		if _, err := tweets.Create(r.Context(), u, form.Text); err != nil {
			log.Error("tweet create failed", "error", err)
			sessions.AddFlash(r.Context(), sess, domain.FlashError, flashForError(err))
			redirect(w, r, "/create-tweet")
			return
		}

		sessions.AddFlash(r.Context(), sess, domain.FlashSuccess, FlashMsgTweetPosted)
		redirect(w, r, "/dashboard")
	}
}

// HandleDeleteTweet deletes a single tweet by id.
func HandleDeleteTweet(sessions *session.Manager, users user.Service, tweets tweet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		u, sess, err := currentUser(r.Context(), users)
		if err != nil {
			redirect(w, r, "/")
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgTweetNotFound)
			redirect(w, r, "/dashboard")
			return
		}

		if err := tweets.Delete(r.Context(), u, id); err != nil {
			log.Error("tweet delete failed", "tweet_id", id, "error", err)
			sessions.AddFlash(r.Context(), sess, domain.FlashError, flashForError(err))
			redirect(w, r, "/dashboard")
			return
		}

		sessions.AddFlash(r.Context(), sess, domain.FlashSuccess, FlashMsgTweetDeleted)
		redirect(w, r, "/dashboard")
	}
}

// HandleEditTweetForm renders the edit page prefilled with the tweet's text,
// attribution suffix stripped.
func HandleEditTweetForm(sessions *session.Manager, users user.Service, tweets tweet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		u, sess, err := currentUser(r.Context(), users)
		if err != nil {
			redirect(w, r, "/")
			return
		}

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgTweetNotFound)
			redirect(w, r, "/dashboard")
			return
		}

		creds := twitter.Credentials{Token: u.AccessToken, Secret: u.AccessTokenSecret}
		_, text, err := tweets.GetForEdit(r.Context(), creds, id)
		if err != nil {
			log.Error("tweet fetch for edit failed", "tweet_id", id, "error", err)
			sessions.AddFlash(r.Context(), sess, domain.FlashError, flashForError(err))
			redirect(w, r, "/dashboard")
			return
		}

		render(w, r, "edit_tweet.html", pageData{
			User:      u,
			Flashes:   sessions.PopFlashes(r.Context(), sess),
			TweetID:   idStr,
			TweetText: text,
		})
	}
}

// HandleEditTweet replaces a tweet with new text. The platform has no real
// edit, so this deletes and reposts; a failed repost loses the tweet.
func HandleEditTweet(sessions *session.Manager, users user.Service, tweets tweet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		u, sess, err := currentUser(r.Context(), users)
		if err != nil {
			redirect(w, r, "/")
			return
		}

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgTweetNotFound)
			redirect(w, r, "/dashboard")
			return
		}

		form := TweetForm{Text: r.PostFormValue("text")}
		if err := GetValidator().ValidateStruct(form); err != nil {
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FormatValidationError(err))
			redirect(w, r, "/edit-tweet/"+idStr)
			return
		}

		if _, err := tweets.Edit(r.Context(), u, id, form.Text); err != nil {
			log.Error("tweet edit failed", "tweet_id", id, "error", err)
			msg := flashForError(err)
			if errors.Is(err, domain.ErrEditLost) {
				msg = FlashMsgEditLostTweet
			}
			sessions.AddFlash(r.Context(), sess, domain.FlashError, msg)
			redirect(w, r, "/dashboard")
			return
		}

		sessions.AddFlash(r.Context(), sess, domain.FlashSuccess, FlashMsgTweetEdited)
		redirect(w, r, "/dashboard")
	}
}

// HandleBatchDelete deletes the checked tweets one by one and reports counts.
func HandleBatchDelete(sessions *session.Manager, users user.Service, tweets tweet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		u, sess, err := currentUser(r.Context(), users)
		if err != nil {
			redirect(w, r, "/")
			return
		}

		if err := r.ParseForm(); err != nil {
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgGenericError)
			redirect(w, r, "/dashboard")
			return
		}

		var ids []int64
		for _, raw := range r.PostForm["tweet_ids"] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			sessions.AddFlash(r.Context(), sess, domain.FlashWarning, "No tweets selected")
			redirect(w, r, "/dashboard")
			return
		}

		res, err := tweets.BatchDelete(r.Context(), u, ids)
		if err != nil {
			log.Error("batch delete failed", "error", err)
			sessions.AddFlash(r.Context(), sess, domain.FlashError, FlashMsgGenericError)
			redirect(w, r, "/dashboard")
			return
		}

		if res.Failed > 0 {
			msg := fmt.Sprintf("Deleted %d tweets, %d failed", res.Succeeded, res.Failed)
			sessions.AddFlash(r.Context(), sess, domain.FlashWarning, msg)
		} else {
			msg := fmt.Sprintf("Deleted %d tweets", res.Succeeded)
			sessions.AddFlash(r.Context(), sess, domain.FlashSuccess, msg)
		}
		redirect(w, r, "/dashboard")
	}
}
