package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dghubble/oauth1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/twitter"
)

// MockAPI mocks the platform API for broker tests.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) VerifyCredentials(ctx context.Context, creds twitter.Credentials) (*twitter.Account, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Account), args.Error(1)
}

func (m *MockAPI) UserTimeline(ctx context.Context, creds twitter.Credentials, count int, maxID int64) ([]twitter.Status, error) {
	args := m.Called(ctx, creds, count, maxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]twitter.Status), args.Error(1)
}

func (m *MockAPI) UpdateStatus(ctx context.Context, creds twitter.Credentials, text string) (*twitter.Status, error) {
	args := m.Called(ctx, creds, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Status), args.Error(1)
}

func (m *MockAPI) DestroyStatus(ctx context.Context, creds twitter.Credentials, id int64) (*twitter.Status, error) {
	args := m.Called(ctx, creds, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Status), args.Error(1)
}

func (m *MockAPI) ShowStatus(ctx context.Context, creds twitter.Credentials, id int64) (*twitter.Status, error) {
	args := m.Called(ctx, creds, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.Status), args.Error(1)
}

// newOAuthServer fakes the platform's OAuth endpoints.
func newOAuthServer(t *testing.T, failTokenRequest bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/request_token", func(w http.ResponseWriter, r *http.Request) {
		if failTokenRequest {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprint(w, "oauth_token=req-token&oauth_token_secret=req-secret&oauth_callback_confirmed=true")
	})
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprint(w, "oauth_token=access-token&oauth_token_secret=access-secret")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestBroker(t *testing.T, api twitter.API, failTokenRequest bool) *Broker {
	t.Helper()
	srv := newOAuthServer(t, failTokenRequest)
	endpoint := oauth1.Endpoint{
		RequestTokenURL: srv.URL + "/oauth/request_token",
		AuthorizeURL:    srv.URL + "/oauth/authorize",
		AccessTokenURL:  srv.URL + "/oauth/access_token",
	}
	return NewBroker("ck", "cs", "http://127.0.0.1/callback", api, WithEndpoint(endpoint))
}

func TestBeginLogin(t *testing.T) {
	t.Run("returns request token and authorization URL", func(t *testing.T) {
		broker := newTestBroker(t, &MockAPI{}, false)

		pending, authURL, err := broker.BeginLogin(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "req-token", pending.Token)
		assert.Equal(t, "req-secret", pending.Secret)
		assert.Contains(t, authURL, "oauth_token=req-token")
	})

	t.Run("platform failure is non-fatal and typed", func(t *testing.T) {
		broker := newTestBroker(t, &MockAPI{}, true)

		_, _, err := broker.BeginLogin(context.Background())

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrPlatformUnavailable))
	})
}

func TestCompleteLogin(t *testing.T) {
	t.Run("exchanges verifier and fetches profile", func(t *testing.T) {
		api := &MockAPI{}
		api.On("VerifyCredentials", mock.Anything, twitter.Credentials{Token: "access-token", Secret: "access-secret"}).
			Return(&twitter.Account{
				ID:              12345,
				IDStr:           "12345",
				ScreenName:      "kip",
				Name:            "Kip Codes",
				ProfileImageURL: "https://img/kip.png",
			}, nil)
		broker := newTestBroker(t, api, false)

		profile, creds, err := broker.CompleteLogin(context.Background(),
			RequestToken{Token: "req-token", Secret: "req-secret"}, "verifier-123")

		require.NoError(t, err)
		assert.Equal(t, "12345", profile.TwitterID)
		assert.Equal(t, "kip", profile.Username)
		assert.Equal(t, "Kip Codes", profile.DisplayName)
		assert.Equal(t, "access-token", creds.Token)
		assert.Equal(t, "access-secret", creds.Secret)
		api.AssertExpectations(t)
	})

	t.Run("no pending handshake", func(t *testing.T) {
		broker := newTestBroker(t, &MockAPI{}, false)

		_, _, err := broker.CompleteLogin(context.Background(), RequestToken{}, "verifier")

		assert.True(t, errors.Is(err, domain.ErrNoPendingHandshake))
	})

	t.Run("missing verifier", func(t *testing.T) {
		broker := newTestBroker(t, &MockAPI{}, false)

		_, _, err := broker.CompleteLogin(context.Background(),
			RequestToken{Token: "req-token", Secret: "req-secret"}, "")

		assert.True(t, errors.Is(err, domain.ErrMissingVerifier))
	})

	t.Run("profile fetch failure propagates", func(t *testing.T) {
		api := &MockAPI{}
		api.On("VerifyCredentials", mock.Anything, mock.Anything).
			Return(nil, domain.ErrUnauthorized)
		broker := newTestBroker(t, api, false)

		_, _, err := broker.CompleteLogin(context.Background(),
			RequestToken{Token: "req-token", Secret: "req-secret"}, "verifier")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	})
}
