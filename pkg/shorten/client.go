// Package shorten turns long directions URLs into short shareable links.
package shorten

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.tinyurl.com"

// Client shortens a long URL. Callers are expected to fall back to the long
// URL on error.
type Client interface {
	Shorten(ctx context.Context, longURL string) (string, error)
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

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a shortener client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type createRequest struct {
	URL string `json:"url"`
}

type createResponse struct {
	Data struct {
		TinyURL string `json:"tiny_url"`
	} `json:"data"`
	Errors []string `json:"errors,omitempty"`
}

func (c *httpClient) Shorten(ctx context.Context, longURL string) (string, error) {
	body, err := json.Marshal(createRequest{URL: longURL})
	if err != nil {
		return "", eris.Wrap(err, "shorten: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "shorten: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "shorten: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "shorten: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("shorten: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result createResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "shorten: unmarshal response")
	}
	if result.Data.TinyURL == "" {
		return "", eris.Errorf("shorten: empty short url in response")
	}
	return result.Data.TinyURL, nil
}
