// Package provider provides HTTP client utilities for external game data providers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when a provider has no record for the requested id.
var ErrNotFound = errors.New("not found at provider")

// ClientConfig holds configuration for a provider client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	RateLimit RateLimitConfig
	Retry     RetryConfig
	CB        CBConfig
}

// RateLimitConfig holds client-side rate limiting configuration.
// A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, c := range codes {
		if se.StatusCode == c {
			return true
		}
	}
	return false
}

// NewRestyClient creates a new Resty HTTP client with retry configuration.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on network errors, 429 or 5xx status codes
			if err != nil {
				return true
			}

			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return client
}

// NewRateLimiter creates a token bucket limiter for a provider.
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// NewCircuitBreaker creates a new circuit breaker for a provider.
// Client errors other than 429 do not count as failures: they describe the
// request, not the health of the upstream.
func NewCircuitBreaker[T any](name string, cfg CBConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
			}
			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// Caller bundles the per-provider transport: HTTP client, rate limiter and
// circuit breaker. Provider clients build requests; Caller executes them.
type Caller struct {
	name    string
	client  *resty.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*resty.Response]
	logger  *zap.Logger
}

// NewCaller creates the transport for the named provider.
func NewCaller(name string, cfg ClientConfig, logger *zap.Logger) *Caller {
	return &Caller{
		name:    name,
		client:  NewRestyClient(cfg),
		limiter: NewRateLimiter(cfg.RateLimit),
		cb:      NewCircuitBreaker[*resty.Response](name, cfg.CB, logger),
		logger:  logger,
	}
}

// Name returns the provider identifier.
func (c *Caller) Name() string {
	return c.name
}

// HTTP exposes the underlying Resty client.
func (c *Caller) HTTP() *resty.Client {
	return c.client
}

// State returns the circuit breaker state.
func (c *Caller) State() gobreaker.State {
	return c.cb.State()
}

// Do waits for a rate limit token, then runs the request built by build
// through the circuit breaker. Non-2xx responses become a *StatusError.
// Responses without a Content-Type are decoded as JSON.
func (c *Caller) Do(ctx context.Context, build func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for %s rate limit: %w", c.name, err)
	}

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := build(c.client.R().SetContext(ctx).ExpectContentType("application/json"))
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, &StatusError{Provider: c.name, StatusCode: r.StatusCode()}
		}

		return r, nil
	})

	if err != nil {
		c.logger.Debug("provider request failed",
			zap.String("provider", c.name),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, err
	}

	return resp, nil
}

// Ping issues a plain GET outside the breaker and rate limiter, for health checks.
func (c *Caller) Ping(ctx context.Context, path string, params map[string]string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
