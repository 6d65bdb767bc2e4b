// Package routing estimates driving times with the OpenRouteService
// directions API.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

var _ ports.RouteTimeProvider = (*ORSClient)(nil)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"
)

var ErrNoRoute = errors.New("no route between the points")

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("openrouteservice: status %d: %s", e.Code, e.Body)
}

// ORSClient is safe for concurrent use.
type ORSClient struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	backOff func() backoff.BackOff
}

type Option func(*ORSClient)

func WithBaseURL(u string) Option {
	return func(c *ORSClient) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *ORSClient) { c.session = client }
}

// WithBackOff replaces the retry schedule of transient failures.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *ORSClient) { c.backOff = fn }
}

func NewORSClient(apiKey string, opts ...Option) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("openrouteservice api key is empty")
	}
	c := &ORSClient{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		profile: DefaultProfile,
		backOff: func() backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = 200 * time.Millisecond
			return backoff.WithMaxRetries(exp, 3)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Duration float64 `json:"duration"`
				Distance float64 `json:"distance"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// DurationSeconds returns the driving time from one point to the other,
// rounded to the second.
func (c *ORSClient) DurationSeconds(ctx context.Context, from, to kernel.GeoPoint) (int, error) {
	url := fmt.Sprintf("%s/v2/directions/%s?start=%f,%f&end=%f,%f",
		c.baseURL, c.profile, from.Lng(), from.Lat(), to.Lng(), to.Lat())

	body, err := backoff.RetryWithData(func() ([]byte, error) {
		b, err := c.get(ctx, url)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return b, err
	}, backoff.WithContext(c.backOff(), ctx))
	if err != nil {
		return 0, err
	}

	var resp directionsResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("decode directions: %w", err)
	}
	if len(resp.Features) == 0 {
		return 0, ErrNoRoute
	}
	return int(math.Round(resp.Features[0].Properties.Summary.Duration)), nil
}

func (c *ORSClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return b, nil
}

// retryable reports rate limiting, server errors and network failures.
func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
