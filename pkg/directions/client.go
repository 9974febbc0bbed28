// Package directions queries a Google-style Directions API for candidate
// routes between a listing and a commuter's workplace.
package directions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

	// PreferFewerTransfers asks the provider to bias transit routes toward
	// fewer vehicle changes.
	PreferFewerTransfers = "fewer_transfers"
)

// Request describes one directions lookup.
type Request struct {
	Origin            string
	Destination       string
	Mode              string
	ArrivalTime       time.Time
	Alternatives      bool
	RoutingPreference string
}

// Client fetches candidate routes for a request. Implementations may return
// zero routes without error.
type Client interface {
	Routes(ctx context.Context, req Request) ([]Route, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests at qps queries per second.
func WithRateLimit(qps float64) Option {
	return func(c *httpClient) {
		if qps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(qps), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a directions client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// response is the provider's top-level JSON envelope.
type response struct {
	Routes       []Route `json:"routes"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

func (c *httpClient) Routes(ctx context.Context, req Request) ([]Route, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "directions: rate limit")
		}
	}

	params := url.Values{
		"origin":      {req.Origin},
		"destination": {req.Destination},
		"mode":        {req.Mode},
		"key":         {c.apiKey},
	}
	if req.Alternatives {
		params.Set("alternatives", "true")
	}
	if !req.ArrivalTime.IsZero() {
		params.Set("arrival_time", strconv.FormatInt(req.ArrivalTime.Unix(), 10))
	}
	if req.RoutingPreference != "" {
		params.Set("transit_routing_preference", req.RoutingPreference)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "directions: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "directions: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "directions: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("directions: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "directions: unmarshal response")
	}

	switch result.Status {
	case "OK", "ZERO_RESULTS":
		return result.Routes, nil
	default:
		return nil, eris.Errorf("directions: api status %s: %s", result.Status, result.ErrorMessage)
	}
}

// MapsURL builds the human-facing Google Maps link for a route evaluated
// under the given mode. Returns "" for a route with no legs.
func MapsURL(r Route, mode string) string {
	start, end, ok := r.Endpoints()
	if !ok {
		return ""
	}
	params := url.Values{
		"api":         {"1"},
		"origin":      {start.String()},
		"destination": {end.String()},
		"travelmode":  {mode},
	}
	return "https://www.google.com/maps/dir/?" + params.Encode()
}
