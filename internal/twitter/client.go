package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

const (
	// DefaultBaseURL is the platform's REST API root.
	DefaultBaseURL = "https://api.twitter.com/1.1"

	requestTimeout = 10 * time.Second
)

// API is the set of platform calls the app performs. All calls are signed
// with the supplied user credentials and propagate the platform's own errors
// without retrying.
type API interface {
	VerifyCredentials(ctx context.Context, creds Credentials) (*Account, error)
	UserTimeline(ctx context.Context, creds Credentials, count int, maxID int64) ([]Status, error)
	UpdateStatus(ctx context.Context, creds Credentials, text string) (*Status, error)
	DestroyStatus(ctx context.Context, creds Credentials, id int64) (*Status, error)
	ShowStatus(ctx context.Context, creds Credentials, id int64) (*Status, error)
}

// Client is a typed REST client for the platform's v1.1 API.
type Client struct {
	oauth   *oauth1.Config
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, used by tests to point at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// NewClient creates a Client signing requests with the given app credentials.
func NewClient(consumerKey, consumerSecret string, opts ...Option) *Client {
	c := &Client{
		oauth:   oauth1.NewConfig(consumerKey, consumerSecret),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// httpClient returns an http.Client signing requests for the given user.
func (c *Client) httpClient(ctx context.Context, creds Credentials) *http.Client {
	client := c.oauth.Client(ctx, oauth1.NewToken(creds.Token, creds.Secret))
	client.Timeout = requestTimeout
	return client
}

func (c *Client) get(ctx context.Context, creds Credentials, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}

	return c.do(creds, req, out)
}

func (c *Client) post(ctx context.Context, creds Credentials, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(creds, req, out)
}

func (c *Client) do(creds Credentials, req *http.Request, out any) error {
	resp, err := c.httpClient(req.Context(), creds).Do(req)
	if err != nil {
		return fmt.Errorf("calling platform: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding platform response: %w", err)
	}
	return nil
}

// VerifyCredentials fetches the authenticated user's profile.
func (c *Client) VerifyCredentials(ctx context.Context, creds Credentials) (*Account, error) {
	var account Account
	if err := c.get(ctx, creds, "/account/verify_credentials.json", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UserTimeline returns up to count of the user's most recent tweets,
// descending by recency. A maxID > 0 bounds the page to tweets with id <=
// maxID; the platform may return fewer than count.
func (c *Client) UserTimeline(ctx context.Context, creds Credentials, count int, maxID int64) ([]Status, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	params.Set("tweet_mode", "extended")
	if maxID > 0 {
		params.Set("max_id", strconv.FormatInt(maxID, 10))
	}

	var statuses []Status
	if err := c.get(ctx, creds, "/statuses/user_timeline.json", params, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// UpdateStatus publishes a new tweet and returns it.
func (c *Client) UpdateStatus(ctx context.Context, creds Credentials, text string) (*Status, error) {
	form := url.Values{}
	form.Set("status", text)

	var status Status
	if err := c.post(ctx, creds, "/statuses/update.json", form, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// DestroyStatus deletes a tweet owned by the authenticated user.
func (c *Client) DestroyStatus(ctx context.Context, creds Credentials, id int64) (*Status, error) {
	var status Status
	path := fmt.Sprintf("/statuses/destroy/%d.json", id)
	if err := c.post(ctx, creds, path, url.Values{}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ShowStatus fetches a single tweet with its full text.
func (c *Client) ShowStatus(ctx context.Context, creds Credentials, id int64) (*Status, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))
	params.Set("tweet_mode", "extended")

	var status Status
	if err := c.get(ctx, creds, "/statuses/show.json", params, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
