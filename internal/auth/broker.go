package auth

import (
	"context"
	"fmt"

	"github.com/dghubble/oauth1"
	oauth1Twitter "github.com/dghubble/oauth1/twitter"

	"github.com/kipcodes/tweet-manager/internal/domain"
	"github.com/kipcodes/tweet-manager/internal/twitter"
)

// RequestToken is the one-time token pair issued at the start of the
// three-legged handshake. It lives in the session until the callback arrives.
type RequestToken struct {
	Token  string
	Secret string
}

// Broker wraps the platform's three-legged delegated-authorization handshake.
// The cryptographic parts of the exchange are delegated to the oauth1 library.
type Broker struct {
	config *oauth1.Config
	api    twitter.API
}

// Option configures a Broker.
type Option func(*Broker)

// WithEndpoint overrides the OAuth endpoint URLs, used by tests.
func WithEndpoint(endpoint oauth1.Endpoint) Option {
	return func(b *Broker) {
		b.config.Endpoint = endpoint
	}
}

// NewBroker creates a Broker for the given app credentials and registered
// callback URL.
func NewBroker(consumerKey, consumerSecret, callbackURL string, api twitter.API, opts ...Option) *Broker {
	b := &Broker{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint:       oauth1Twitter.AuthorizeEndpoint,
		},
		api: api,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BeginLogin requests a one-time request token from the platform and returns
// it together with the authorization URL the browser should be redirected to.
// The caller is responsible for stashing the token in the session.
func (b *Broker) BeginLogin(ctx context.Context) (RequestToken, string, error) {
	token, secret, err := b.config.RequestToken()
	if err != nil {
		return RequestToken{}, "", fmt.Errorf("%w: requesting token: %v", domain.ErrPlatformUnavailable, err)
	}

	authURL, err := b.config.AuthorizationURL(token)
	if err != nil {
		return RequestToken{}, "", fmt.Errorf("building authorization URL: %w", err)
	}

	return RequestToken{Token: token, Secret: secret}, authURL.String(), nil
}

// CompleteLogin exchanges the pending request token plus the caller-supplied
// verifier for a long-lived access credential pair, then fetches the
// authenticated user's profile. An empty pending token means there is no
// handshake in flight; an empty verifier means the callback was malformed.
func (b *Broker) CompleteLogin(ctx context.Context, pending RequestToken, verifier string) (*domain.Profile, twitter.Credentials, error) {
	if pending.Token == "" {
		return nil, twitter.Credentials{}, domain.ErrNoPendingHandshake
	}
	if verifier == "" {
		return nil, twitter.Credentials{}, domain.ErrMissingVerifier
	}

	accessToken, accessSecret, err := b.config.AccessToken(pending.Token, pending.Secret, verifier)
	if err != nil {
		return nil, twitter.Credentials{}, fmt.Errorf("%w: exchanging verifier: %v", domain.ErrUnauthorized, err)
	}

	creds := twitter.Credentials{Token: accessToken, Secret: accessSecret}
	account, err := b.api.VerifyCredentials(ctx, creds)
	if err != nil {
		return nil, twitter.Credentials{}, fmt.Errorf("fetching profile: %w", err)
	}

	profile := &domain.Profile{
		TwitterID:    account.IDStr,
		Username:     account.ScreenName,
		DisplayName:  account.Name,
		ProfileImage: account.ProfileImageURL,
	}
	return profile, creds, nil
}
