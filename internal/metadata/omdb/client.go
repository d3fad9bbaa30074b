package omdb

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.omdbapi.com/"

	// HTTP client settings. Outbound calls are blocking I/O; the timeout
	// bounds how long a caller can be stuck on a dead upstream.
	defaultTimeout = 10 * time.Second

	// Transport errors are retried with exponential backoff up to this many
	// extra attempts before surfacing a timeout.
	maxRetries = 3

	// Outbound pacing. OMDb free keys are capped per day; a small steady
	// rate with a burst keeps interactive adds snappy without draining it.
	defaultRPS   = 5
	defaultBurst = 5
)

// Client is a rate-limited OMDb API client.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	apiKey  string
	baseURL string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the OMDb endpoint, mainly for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// New creates a new OMDb client with the given API key.
func New(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		logger:  logger,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the outbound rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}
