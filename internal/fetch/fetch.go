// Package fetch performs polite HTTP GETs against sports-reference.com.
//
// Requests carry a browser-like User-Agent (the site rejects obvious bots) and
// transient failures (network errors, 429 and 5xx responses) are retried with
// exponential backoff. Other non-200 responses fail immediately.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
)

const (
	UserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	Timeout         = 10 * time.Second
	MaxRetries      = 3
	InitialInterval = 2 * time.Second
)

// ErrNotFound is matched by a StatusError carrying a 404.
var ErrNotFound = errors.New("page not found")

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.Code, e.URL)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client fetches pages with retry.
type Client struct {
	http            *http.Client
	userAgent       string
	maxRetries      uint64
	initialInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
// Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = uint64(n)
		}
	}
}

// WithInitialInterval sets the first backoff wait.
func WithInitialInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.initialInterval = d
		}
	}
}

// New creates a Client with the package defaults.
func New(opts ...Option) *Client {
	c := &Client{
		http:            &http.Client{Timeout: Timeout},
		userAgent:       UserAgent,
		maxRetries:      MaxRetries,
		initialInterval: InitialInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and returns the body of a 200 response. The caller must
// close it.
func (c *Client) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("fetch.get", time.Since(start))
	}()

	var body io.ReadCloser
	attempt := 0

	op := func() error {
		attempt++
		logger.IncrCounter("fetch.requests")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("fetching page: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			statusErr := &StatusError{URL: url, Code: resp.StatusCode}
			if statusErr.Temporary() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = resp.Body
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		logger.IncrCounter("fetch.retries")
		logger.Warn("retrying fetch", logger.Fields{
			"url":     url,
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		logger.IncrCounter("fetch.failures")
		return nil, err
	}
	return body, nil
}
