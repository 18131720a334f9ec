// Package http builds HTTP clients with retry logic. It wraps HashiCorp's
// retryablehttp.Client and exposes functional options for timeouts, retry
// behavior and outbound identification.
package http

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Default client settings applied when no option overrides them.
const (
	defaultTimeout      = 5 * time.Second
	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 5 * time.Second
	defaultRetryMax     = 2
)

// config holds internal settings for the HTTP client.
type config struct {
	timeout      time.Duration // maximum duration for a single HTTP request
	retryWaitMin time.Duration // minimum delay between retry attempts
	retryWaitMax time.Duration // maximum delay between retry attempts
	retryMax     int           // maximum number of retry attempts
	userAgent    string        // User-Agent stamped on outbound requests
}

// Option defines a functional option for configuring the HTTP client.
type Option func(*config)

// userAgentTransport stamps a User-Agent header on every request that does
// not already carry one, then delegates to the wrapped RoundTripper.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

// RoundTrip clones the request before mutating headers, as required by the
// RoundTripper contract.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}

	return t.next.RoundTrip(req)
}

// NewClient returns a retryablehttp.Client configured with the provided
// options. Defaults when no options are given:
//
//   - timeout:      5 seconds
//   - retryWaitMin: 1 second
//   - retryWaitMax: 5 seconds
//   - retryMax:     2 retries
//
// The client's internal logger is disabled; callers log failures themselves.
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      defaultTimeout,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
		retryMax:     defaultRetryMax,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax

	if cfg.userAgent != "" {
		client.HTTPClient.Transport = &userAgentTransport{
			agent: cfg.userAgent,
			next:  client.HTTPClient.Transport,
		}
	}

	return client
}

// WithTimeout sets the maximum duration allowed for a single HTTP request.
// Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum delay between retry attempts.
// Default: 1 second.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum delay between retry attempts.
// Default: 5 seconds.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets the maximum number of retry attempts for failed requests.
// Default: 2 retries.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithUserAgent stamps the given User-Agent on every outbound request that
// does not set one explicitly. Default: none, leaving the Go standard
// library's User-Agent in place.
func WithUserAgent(agent string) Option {
	return func(c *config) {
		c.userAgent = agent
	}
}
