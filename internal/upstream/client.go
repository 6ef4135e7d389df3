// Package upstream is the shared HTTP plumbing for the Sleeper, Fleaflicker
// and FantasyCalc clients: bounded retries, a circuit breaker, a rate limit
// and one timeout covering every attempt of a call.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/tyler180/fantasy-roster-values/internal/metrics"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Volatile/1.0 (FantasyFootballAnalysis)"

	maxErrorBody = 64 << 10
)

type Config struct {
	// Name labels logs, metrics and the circuit breaker.
	Name    string
	BaseURL string

	UserAgent string
	// Timeout bounds a whole call: rate-limit wait, every attempt and the
	// backoff between them.
	Timeout    time.Duration
	MaxRetries int
	// RatePerSecond <= 0 disables client-side rate limiting.
	RatePerSecond float64
	Burst         int

	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

type Client struct {
	name    string
	baseURL string
	ua      string
	timeout time.Duration

	http    *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = cfg.Logger.With("upstream", cfg.Name)
	// Hand back the last response so its status and body reach the caller.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	}
	rc.HTTPClient.Timeout = cfg.Timeout

	settings := gobreaker.Settings{
		Name:        cfg.Name + "-api",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// Rejections (bad league id, 404) say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if ue, ok := AsError(err); ok {
				return ue.StatusCode < 500
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		ua:      cfg.UserAgent,
		timeout: cfg.Timeout,
		http:    rc,
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: limiter,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

func (c *Client) Name() string { return c.name }

// GetJSON issues GET baseURL+path?query and decodes a 2xx JSON body into
// out. Non-2xx responses become *Error; everything else that prevents a
// decoded answer becomes *UnavailableError.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &UnavailableError{Provider: c.name, Err: err}
		}
	}

	start := time.Now()
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.do(ctx, u, out)
	})
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "breaker_open"
		err = &UnavailableError{Provider: c.name, Err: err}
	default:
		if ue, ok := AsError(err); ok {
			outcome = fmt.Sprintf("status_%d", ue.StatusCode)
		} else {
			outcome = "unavailable"
		}
	}
	c.metrics.UpstreamRequest(c.name, outcome, time.Since(start))
	if err != nil {
		c.logger.Warn("upstream request failed", "upstream", c.name, "url", u, "outcome", outcome, "error", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, u string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UnavailableError{Provider: c.name, Err: err}
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if resp == nil {
		if err == nil {
			err = errors.New("no response")
		}
		return &UnavailableError{Provider: c.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Provider: c.name, StatusCode: resp.StatusCode, Payload: payloadOf(body), URL: u}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UnavailableError{Provider: c.name, Err: fmt.Errorf("decode %s: %w", u, err)}
	}
	return nil
}
