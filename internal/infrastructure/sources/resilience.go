package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Resilient HTTP client shared by the remote ontology sources
// ─────────────────────────────────────────────────────────────────────────────

// HTTPConfig holds the knobs for a resilient source client.
type HTTPConfig struct {
	// RequestTimeout bounds a single attempt, not the whole retry loop.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `mapstructure:"max_retries"`

	// InitialBackoff seeds the exponential backoff between attempts.
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`

	// RequestsPerSecond caps the outgoing request rate; 0 means unlimited.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// BreakerFailures is the consecutive-failure count that opens the
	// circuit; BreakerTimeout is how long it stays open.
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

func (c *HTTPConfig) fillDefaults() {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 15 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = 30 * time.Second
	}
}

// HTTPClient wraps http.Client with rate limiting, retry with exponential
// backoff, and a circuit breaker.  One instance per remote source; the
// breaker state is scoped to that source's endpoint.
type HTTPClient struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	config  HTTPConfig
	logger  logging.Logger
}

// NewHTTPClient builds a resilient client.  name appears in breaker state
// transitions and error detail.
func NewHTTPClient(name string, cfg HTTPConfig, logger logging.Logger) *HTTPClient {
	cfg.fillDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	log := logger.Named(name)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			log.Warn("source circuit state changed",
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
		},
	})

	return &HTTPClient{
		name:    name,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: limiter,
		breaker: breaker,
		config:  cfg,
		logger:  log,
	}
}

// GetJSON performs a GET against rawURL with query and header applied,
// decoding the response body into out.  Retries transient failures (network
// errors, 429, 5xx); does not retry auth failures or malformed responses.
func (c *HTTPClient) GetJSON(ctx context.Context, rawURL string, query url.Values, header http.Header, out interface{}) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid source url")
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	target := u.String()

	operation := func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.doOnce(ctx, target, header, out)
		})
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return backoff.Permanent(errors.Wrap(err, errors.ErrCodeSourceUnavailable,
				fmt.Sprintf("%s circuit open", c.name)))
		}
		return err
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.config.InitialBackoff
	bo := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(c.config.MaxRetries)), ctx)

	if err := backoff.Retry(operation, bo); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return appErr
		}
		return errors.Wrap(err, errors.ErrCodeSourceUnavailable,
			fmt.Sprintf("%s request failed", c.name))
	}
	return nil
}

func (c *HTTPClient) doOnce(ctx context.Context, target string, header http.Header, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, errors.ErrCodeBadRequest, "build source request"))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceUnavailable,
			fmt.Sprintf("%s unreachable", c.name))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fallthrough to decode
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.New(errors.ErrCodeSourceRateLimited,
			fmt.Sprintf("%s rate limited", c.name))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return backoff.Permanent(errors.New(errors.ErrCodeSourceAuthFailed,
			fmt.Sprintf("%s rejected credentials", c.name)))
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(errors.NotFound(
			fmt.Sprintf("%s returned 404", c.name)))
	case resp.StatusCode >= 500:
		return errors.Newf(errors.ErrCodeSourceUnavailable,
			"%s returned status %d", c.name, resp.StatusCode)
	default:
		return backoff.Permanent(errors.Newf(errors.ErrCodeSourceParseError,
			"%s returned unexpected status %d", c.name, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceUnavailable,
			fmt.Sprintf("%s response truncated", c.name))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return backoff.Permanent(errors.Wrap(err, errors.ErrCodeSourceParseError,
			fmt.Sprintf("%s response not decodable", c.name)))
	}
	return nil
}

//Personal.AI order the ending
