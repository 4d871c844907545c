package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kipcodes/tweet-manager/internal/domain"
)

// Platform error codes that matter to the app. Everything else is surfaced
// with its literal message.
const (
	codeRateLimited     = 88
	codeNotFound        = 34
	codeDuplicateStatus = 187
	codeNoStatusFound   = 144
)

// APIError is a non-2xx response from the platform, decoded from its
// {"errors":[{"code":n,"message":s}]} payload.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("twitter: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("twitter: %s (code %d, HTTP %d)", e.Message, e.Code, e.StatusCode)
}

// Unwrap maps the platform error onto the app's sentinel errors so callers
// can use errors.Is without knowing platform codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.Code == codeRateLimited || e.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case e.Code == codeNotFound || e.Code == codeNoStatusFound || e.StatusCode == http.StatusNotFound:
		return domain.ErrTweetNotFound
	case e.Code == codeDuplicateStatus:
		return domain.ErrDuplicateTweet
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return domain.ErrUnauthorized
	case e.StatusCode >= http.StatusInternalServerError:
		return domain.ErrPlatformUnavailable
	}
	return nil
}

type errorPayload struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// decodeAPIError reads a non-2xx response body into an APIError.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		apiErr.Code = payload.Errors[0].Code
		apiErr.Message = payload.Errors[0].Message
	}
	return apiErr
}
