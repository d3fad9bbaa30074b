package omdb

import (
	"context"
	json "github.com/go-json-experiment/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/moviekeep/moviekeep-server/internal/domain"
)

// unavailable is the sentinel OMDb uses for fields it has no data for.
// It must be normalized to absent, never stored literally.
const unavailable = "N/A"

// Plausible release year bounds for the optional year hint.
const (
	minYear = 1888
	maxYear = 2100
)

// Lookup queries OMDb by title with an optional year hint (0 means no hint).
//
// Transport errors are retried with exponential backoff; an explicit
// rate-limit response surfaces ErrRateLimited immediately without local
// retry. A definitive "not found" answer is a Result with a nil Match,
// not an error.
func (c *Client) Lookup(ctx context.Context, title string, year int) (Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Result{}, fmt.Errorf("%w: empty title", ErrInvalidQuery)
	}
	if year != 0 && (year < minYear || year > maxYear) {
		return Result{}, fmt.Errorf("%w: year %d out of range", ErrInvalidQuery, year)
	}

	if err := c.wait(ctx); err != nil {
		return Result{}, wrapError("lookup", title, err)
	}

	params := url.Values{}
	params.Set("t", title)
	params.Set("type", "movie")
	params.Set("apikey", c.apiKey)
	if year != 0 {
		params.Set("y", strconv.Itoa(year))
	}
	lookupURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("omdb lookup", "title", title, "year", year)

	var raw rawResponse
	operation := func() error {
		return c.doRequest(ctx, lookupURL, &raw)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		// Exhausted retries on a transport failure count as a timeout.
		var transient *transientError
		if errors.As(err, &transient) {
			return Result{}, wrapError("lookup", title, fmt.Errorf("%w: %v", ErrTimeout, transient.err))
		}
		return Result{}, wrapError("lookup", title, err)
	}

	if strings.EqualFold(raw.Response, "False") {
		switch {
		case strings.Contains(raw.Error, "not found"):
			// Definitive miss: callers must distinguish this from failure.
			c.logger.Debug("omdb no match", "title", title, "year", year)
			return Result{}, nil
		case strings.Contains(raw.Error, "Request limit"):
			return Result{}, wrapError("lookup", title, ErrRateLimited)
		default:
			return Result{}, wrapError("lookup", title, fmt.Errorf("%w: %s", ErrBadRequest, raw.Error))
		}
	}

	return Result{Match: normalize(raw)}, nil
}

// transientError marks transport failures as retryable for the backoff loop.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// doRequest performs one round trip and classifies the outcome. Transport
// errors come back as *transientError so the retry policy picks them up;
// everything else is permanent.
func (c *Client) doRequest(ctx context.Context, lookupURL string, out *rawResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MovieKeep/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return &transientError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.UnmarshalRead(resp.Body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("parse response: %w", err))
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		// The server told us to back off; retrying locally would make it worse.
		return backoff.Permanent(ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized:
		return backoff.Permanent(fmt.Errorf("%w: invalid api key", ErrBadRequest))
	case resp.StatusCode >= 500:
		return backoff.Permanent(ErrServer)
	default:
		return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// normalize maps the raw OMDb payload onto the canonical facts record.
// The mapping is total: every raw field lands as a typed value or absent.
func normalize(raw rawResponse) *domain.MovieFacts {
	facts := &domain.MovieFacts{
		Title:    cleanField(raw.Title),
		Director: cleanField(raw.Director),
		Poster:   cleanField(raw.Poster),
	}

	if y := parseYear(raw.Year); y != 0 {
		facts.Year = &y
	}
	if r, ok := parseRating(raw.ImdbRating); ok {
		facts.Rating = &r
	}
	if imdbID := cleanField(raw.ImdbID); imdbID != "" {
		facts.ExternalID = imdbID
		facts.ExternalLink = "https://www.imdb.com/title/" + imdbID + "/"
	}

	return facts
}

// cleanField trims a raw string and maps the "N/A" sentinel to absent.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, unavailable) {
		return ""
	}
	return s
}

// parseYear extracts the leading 4-digit year from a raw year string.
// OMDb emits ranges like "2010-2012" for some entries; the start year wins.
func parseYear(s string) int {
	s = cleanField(s)
	if len(s) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y < minYear || y > maxYear {
		return 0
	}
	return y
}

// parseRating parses a raw rating into a value bounded to [0, 10].
// Non-numeric ratings are absent.
func parseRating(s string) (float64, bool) {
	s = cleanField(s)
	if s == "" {
		return 0, false
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(r) {
		return 0, false
	}
	return math.Min(math.Max(r, 0), 10), true
}
