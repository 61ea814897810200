package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3/"
	DefaultTimeout = 15 * time.Second
)

// Lister performs one request against a paged list endpoint and decodes the
// JSON body into out.
type Lister interface {
	List(ctx context.Context, ep Endpoint, params url.Values, out any) error
}

// StatusError is returned for any non-200 answer.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("youtube api error: %s", e.Status)
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the Data API. Calls go through a circuit breaker so a
// failing upstream is not hammered by every pending command.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	log := cfg.Logger
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "youtube",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors (bad playlist id, quota) say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL: cfg.BaseURL,
		key:     cfg.APIKey,
		http:    cfg.HTTPClient,
		breaker: cb,
		log:     log,
	}
}

func (c *Client) List(ctx context.Context, ep Endpoint, params url.Values, out any) error {
	q := cloneValues(params)
	if c.key != "" {
		q.Set("key", c.key)
	}
	u := c.baseURL + string(ep) + "?" + q.Encode()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.get(ctx, u, out)
	})
	return err
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("youtube connection failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+2)
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
