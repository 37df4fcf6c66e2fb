// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/metrics"
)

// ErrUnavailable is wrapped by every FetchNearby failure.
var ErrUnavailable = errors.New("places: provider unavailable")

// BreakerName labels the Geoapify circuit breaker in logs and metrics.
const BreakerName = "geoapify"

// maxErrorBodySize limits how much of an error response is read for logging.
const maxErrorBodySize = 4 * 1024

// Config configures the Geoapify client.
type Config struct {
	// BaseURL of the Geoapify API.
	// Default: https://api.geoapify.com
	BaseURL string `koanf:"base_url"`

	// APIKey for Geoapify. An empty key disables the client.
	APIKey string `koanf:"api_key"`

	// GridSize is the number of extra query points in each direction.
	// Default: 1 (3x3 grid)
	GridSize int `koanf:"grid_size"`

	// StepMeters is the spacing between grid points.
	// Default: 400
	StepMeters float64 `koanf:"step_meters"`

	// Timeout bounds a single HTTP request.
	// Default: 5s
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond and Burst configure the outbound limiter.
	// Default: 5 rps, burst 9
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	// Default: 3
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before probing.
	// Default: 30s
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// DefaultConfig returns the client defaults without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.geoapify.com",
		GridSize:          1,
		StepMeters:        400,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 5,
		Burst:             9,
		BreakerFailures:   3,
		BreakerTimeout:    30 * time.Second,
	}
}

// Client queries the Geoapify place-details endpoint.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]Place]
	logger  zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a Geoapify client. Zero-valued config fields fall back to
// DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger, opts ...ClientOption) *Client {
	cfg = withDefaults(cfg)
	logger = logger.With().Str("component", "places").Logger()

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger,
	}

	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)
	c.cb = gobreaker.NewCircuitBreaker[[]Place](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// A caller giving up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func withDefaults(cfg Config) Config {
	d := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.BaseURL
	}
	if cfg.GridSize < 0 {
		cfg.GridSize = 0
	}
	if cfg.StepMeters <= 0 {
		cfg.StepMeters = d.StepMeters
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = d.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = d.Burst
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = d.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = d.BreakerTimeout
	}
	return cfg
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

// FetchNearby returns restaurants around center, one Geoapify call per grid
// point, deduplicated by place id. Any failed call fails the whole fetch.
func (c *Client) FetchNearby(ctx context.Context, center geo.Point) ([]Place, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%w: api key not configured", ErrUnavailable)
	}

	points := geo.GridOffsets(center, c.cfg.GridSize, c.cfg.StepMeters)
	seen := make(map[string]struct{})
	var out []Place

	for _, p := range points {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
		}

		places, err := c.cb.Execute(func() ([]Place, error) {
			return c.fetchPoint(ctx, p)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				metrics.RecordPlacesRequest("rejected", 0)
			}
			if errors.Is(err, ErrUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		for i := range places {
			id := places[i].ID
			if id != "" {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
			}
			out = append(out, places[i])
		}
	}

	c.logger.Debug().
		Str("center", center.String()).
		Int("grid_points", len(points)).
		Int("places", len(out)).
		Msg("fetched nearby places")
	return out, nil
}

// fetchPoint performs one place-details request.
func (c *Client) fetchPoint(ctx context.Context, p geo.Point) ([]Place, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	params.Set("features", "radius_500.restaurant,details,radius_500")
	params.Set("apiKey", c.cfg.APIKey)
	reqURL := c.cfg.BaseURL + "/v2/place-details?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordPlacesRequest("transport_error", time.Since(start))
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = logging.RedactURL(uerr.URL)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordPlacesRequest("http_error", time.Since(start))
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.logger.Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("geoapify request failed")
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		metrics.RecordPlacesRequest("decode_error", time.Since(start))
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}
	metrics.RecordPlacesRequest("ok", time.Since(start))

	places := make([]Place, 0, len(fc.Features))
	for i := range fc.Features {
		places = append(places, normalizePlace(&fc.Features[i].Properties))
	}
	return places, nil
}

// stateToFloat converts circuit breaker state to the metrics gauge encoding
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
