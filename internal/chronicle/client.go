package chronicle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://asia-southeast1-backstory.googleapis.com/v2"
	Scope          = "https://www.googleapis.com/auth/chronicle-backstory"

	// DefaultRetryDelay is how long to wait after a 429 before the single retry.
	// The API allows 10 queries per 60s.
	DefaultRetryDelay = 6 * time.Second
)

// Client issues authenticated GETs against the Detection Engine API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryDelay  time.Duration
	sleep       func(time.Duration)
	onRateLimit func(op string, wait time.Duration)
}

type Option func(*Client)

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithRateLimitHook registers fn to be called before every rate-limit wait.
func WithRateLimitHook(fn func(op string, wait time.Duration)) Option {
	return func(c *Client) { c.onRateLimit = fn }
}

// NewClient wraps an already authenticated http.Client.
func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		retryDelay: DefaultRetryDelay,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type response struct {
	status int
	body   []byte
}

// getWithRateLimitRetry performs one GET and, only if it was answered with 429,
// waits retryDelay and performs exactly one more. The second response is returned
// as-is whatever its status.
func (c *Client) getWithRateLimitRetry(ctx context.Context, op string, path string, query url.Values) (response, error) {
	resp, err := c.get(ctx, op, path, query)
	if err != nil {
		return response{}, err
	}
	if resp.status != http.StatusTooManyRequests {
		return resp, nil
	}

	if c.onRateLimit != nil {
		c.onRateLimit(op, c.retryDelay)
	}
	c.sleep(c.retryDelay)
	return c.get(ctx, op, path, query)
}

func (c *Client) get(ctx context.Context, op string, path string, query url.Values) (response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return response{}, &Error{Op: op, Kind: FailureTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "detectfetch")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, &Error{Op: op, Kind: FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, &Error{Op: op, Kind: FailureTransport, Err: fmt.Errorf("read body: %w", err)}
	}
	return response{status: resp.StatusCode, body: body}, nil
}

// statusError converts a non-200 response into an *Error.
func statusError(op string, resp response) error {
	kind := FailureStatus
	if resp.status == http.StatusTooManyRequests {
		kind = FailureRateLimited
	}
	return &Error{
		Op:         op,
		Kind:       kind,
		StatusCode: resp.status,
		Body:       strings.TrimSpace(string(resp.body)),
	}
}
