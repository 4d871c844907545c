package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Tweet errors
	ErrMsgTweetNotFound  = "tweet not found"
	ErrMsgEmptyText      = "tweet text is empty"
	ErrMsgTextTooLong    = "tweet text exceeds length limit"
	ErrMsgDuplicateTweet = "duplicate tweet"
	ErrMsgEditLost       = "edit lost the tweet"

	// Auth/handshake errors
	ErrMsgNotAuthenticated   = "not authenticated"
	ErrMsgNoPendingHandshake = "no pending handshake"
	ErrMsgMissingVerifier    = "missing oauth verifier"

	// Platform errors
	ErrMsgRateLimited         = "rate limited by platform"
	ErrMsgUnauthorized        = "platform rejected credentials"
	ErrMsgPlatformUnavailable = "platform unavailable"

	// Session errors
	ErrMsgSessionNotFound = "session not found"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Tweet errors
	ErrTweetNotFound  = errors.New(ErrMsgTweetNotFound)
	ErrEmptyText      = errors.New(ErrMsgEmptyText)
	ErrTextTooLong    = errors.New(ErrMsgTextTooLong)
	ErrDuplicateTweet = errors.New(ErrMsgDuplicateTweet)

	// ErrEditLost marks an edit whose repost failed after the original was
	// already deleted. The tweet is gone.
	ErrEditLost = errors.New(ErrMsgEditLost)

	// Auth/handshake errors
	ErrNotAuthenticated   = errors.New(ErrMsgNotAuthenticated)
	ErrNoPendingHandshake = errors.New(ErrMsgNoPendingHandshake)
	ErrMissingVerifier    = errors.New(ErrMsgMissingVerifier)

	// Platform errors
	ErrRateLimited         = errors.New(ErrMsgRateLimited)
	ErrUnauthorized        = errors.New(ErrMsgUnauthorized)
	ErrPlatformUnavailable = errors.New(ErrMsgPlatformUnavailable)

	// Session errors
	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)
)
