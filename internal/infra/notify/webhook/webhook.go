// Package webhook delivers sealed block notifications as JSON documents
// posted to a configured HTTP endpoint, with automatic retries on transient
// failures.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gabapcia/chainledger/internal/node"
	transporthttp "github.com/gabapcia/chainledger/internal/pkg/transport/http"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUnexpectedStatusCode indicates that the webhook endpoint answered with a
// status outside the 2xx range after all retries were spent.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// userAgent identifies this process on every webhook delivery.
const userAgent = "chainledger-webhook"

// notifier posts every sealed block to a single webhook endpoint.
type notifier struct {
	endpoint   string                // The URL notifications are posted to
	httpClient *retryablehttp.Client // The HTTP client used to perform requests
}

// Compile-time assertion that notifier implements the BlockNotifier interface.
var _ node.BlockNotifier = (*notifier)(nil)

// NotifySealedBlock serializes the sealed block and posts it to the webhook
// endpoint. The request carries a "Content-Type: application/json" header.
// Any answer outside the 2xx range is reported as ErrUnexpectedStatusCode
// wrapped with the received status.
func (n *notifier) NotifySealedBlock(ctx context.Context, block node.SealedBlock) error {
	body, err := json.Marshal(block)
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, res.StatusCode)
	}

	return nil
}

// config holds optional configuration parameters for the webhook notifier.
type config struct {
	timeout      time.Duration // Maximum time to wait for a HTTP request
	retryWaitMin time.Duration // Minimum delay between retries
	retryWaitMax time.Duration // Maximum delay between retries
	retryMax     int           // Maximum number of retry attempts
}

// Option defines a functional option type used to customize the notifier
// configuration.
type Option func(*config)

// NewNotifier creates a webhook notifier pointing at the given endpoint.
// Optional configuration parameters can be supplied using functional options
// such as WithTimeout.
func NewNotifier(endpoint string, opts ...Option) *notifier {
	cfg := config{
		timeout:      5 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.timeout),
		transporthttp.WithRetryWaitMin(cfg.retryWaitMin),
		transporthttp.WithRetryWaitMax(cfg.retryWaitMax),
		transporthttp.WithRetryMax(cfg.retryMax),
		transporthttp.WithUserAgent(userAgent),
	)

	return &notifier{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// WithTimeout configures the maximum duration for a single HTTP request.
//
// Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin configures the minimum wait duration between retry attempts.
//
// Default: 1 second.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax configures the maximum wait duration between retry attempts.
//
// Default: 5 seconds.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax configures the maximum number of retry attempts for failed
// requests.
//
// Default: 2 retries.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}
