// Package slack posts listing messages to a Slack channel.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://slack.com/api"

// Client posts a pre-formatted text message to a channel.
type Client interface {
	PostMessage(ctx context.Context, channel, text string) error
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

// WithUsername overrides the bot username shown on posted messages.
func WithUsername(name string) Option {
	return func(c *httpClient) {
		c.username = name
	}
}

type httpClient struct {
	token    string
	baseURL  string
	username string
	http     *http.Client
}

// NewClient creates a Slack API client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:    token,
		baseURL:  defaultBaseURL,
		username: "aptscout",
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type postMessageRequest struct {
	Channel   string `json:"channel"`
	Text      string `json:"text"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (c *httpClient) PostMessage(ctx context.Context, channel, text string) error {
	body, err := json.Marshal(postMessageRequest{
		Channel:   channel,
		Text:      text,
		Username:  c.username,
		IconEmoji: ":robot_face:",
	})
	if err != nil {
		return eris.Wrap(err, "slack: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "slack: create request")
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "slack: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "slack: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("slack: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result postMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return eris.Wrap(err, "slack: unmarshal response")
	}
	if !result.OK {
		return eris.Errorf("slack: api error: %s", result.Error)
	}
	return nil
}
