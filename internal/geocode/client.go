// Package geocode resolves free-text place names to coordinates through a
// Google-style geocoding HTTP API.
//
// Calls are bounded by a per-request timeout and guarded by a circuit breaker
// so a failing upstream fails segment creation fast instead of stalling it.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kculafic/bikeThing/internal/domain"
)

// DefaultURL is the Google Geocoding API JSON endpoint.
const DefaultURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNoResults is returned when the upstream answered but found nothing for
// the address. It does not count as a breaker failure.
var ErrNoResults = errors.New("no geocoding results")

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL string
	APIKey  string

	// Timeout bounds a single lookup. Defaults to 5s.
	Timeout time.Duration

	// HTTPClient defaults to a client with Timeout applied.
	HTTPClient *http.Client

	Logger *slog.Logger

	// FailureThreshold is the number of consecutive failures that opens the
	// breaker. Defaults to 5.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before letting a probe
	// through. Defaults to 30s.
	OpenTimeout time.Duration
}

// Client looks up addresses. Safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[domain.LatLng]
	log     *slog.Logger
}

// New builds a Client from opts.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	c := &Client{
		http:    opts.HTTPClient,
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}

	threshold := opts.FailureThreshold
	c.breaker = gobreaker.NewCircuitBreaker[domain.LatLng](gobreaker.Settings{
		Name:        "geocode",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Zero results and callers hanging up say nothing about upstream
		// health. The per-call timeout surfaces as DeadlineExceeded and
		// still counts.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoResults) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return c
}

// Lookup returns the location of the first result for address.
// Every failure is wrapped with domain.ErrUpstream; zero results additionally
// wrap ErrNoResults, an open breaker wraps gobreaker.ErrOpenState.
func (c *Client) Lookup(ctx context.Context, address string) (domain.LatLng, error) {
	loc, err := c.breaker.Execute(func() (domain.LatLng, error) {
		return c.lookup(ctx, address)
	})
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("geocode.Client.Lookup: %w: %w", domain.ErrUpstream, err)
	}
	return loc, nil
}

// response is the subset of the geocoding payload we read.
type response struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location domain.LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *Client) lookup(ctx context.Context, address string) (domain.LatLng, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("address", address)
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.LatLng{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.LatLng{}, fmt.Errorf("decode response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return domain.LatLng{}, ErrNoResults
	default:
		return domain.LatLng{}, fmt.Errorf("status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return domain.LatLng{}, ErrNoResults
	}
	return body.Results[0].Geometry.Location, nil
}
