package handler

import (
	"errors"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// User-facing flash messages. Handlers and tests reference these constants to
// stay consistent; internal error detail never reaches the browser.
const (
	FlashMsgLoginRequired        = "Please log in first"
	FlashMsgLoginFailed          = "Login failed. Please try again."
	FlashMsgLoginDenied          = "Authorization was denied or timed out"
	FlashMsgLoggedOut            = "You have been logged out"
	FlashMsgTweetPosted          = "Tweet posted"
	FlashMsgTweetDeleted         = "Tweet deleted"
	FlashMsgTweetEdited          = "Tweet updated"
	FlashMsgTweetNotFound        = "That tweet no longer exists"
	FlashMsgDuplicateTweet       = "You already posted that exact tweet"
	FlashMsgRateLimited          = "Rate limited by Twitter. Try again in a few minutes."
	FlashMsgUnauthorized         = "Twitter rejected your credentials. Try logging in again."
	FlashMsgPlatformDown         = "Twitter is unavailable right now. Try again later."
	FlashMsgEmptyTweet           = "Tweet text cannot be empty"
	FlashMsgTweetTooLong         = "Tweet text is too long"
	FlashMsgEditLostTweet        = "The tweet was removed but reposting failed; the edit is lost"
	FlashMsgGenericError         = "Something went wrong"
	FlashMsgDashboardUnavailable = "Could not load your tweets right now"
)

// flashForError maps a service error to the message flashed at the user.
func flashForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		return FlashMsgEmptyTweet
	case errors.Is(err, domain.ErrTextTooLong):
		return FlashMsgTweetTooLong
	case errors.Is(err, domain.ErrTweetNotFound):
		return FlashMsgTweetNotFound
	case errors.Is(err, domain.ErrDuplicateTweet):
		return FlashMsgDuplicateTweet
	case errors.Is(err, domain.ErrRateLimited):
		return FlashMsgRateLimited
	case errors.Is(err, domain.ErrUnauthorized):
		return FlashMsgUnauthorized
	case errors.Is(err, domain.ErrPlatformUnavailable):
		return FlashMsgPlatformDown
	default:
		return FlashMsgGenericError
	}
}
