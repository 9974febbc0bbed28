package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostMessage(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := NewClient("xoxb-test", WithBaseURL(srv.URL))
	err := c.PostMessage(context.Background(), "#housing", "rockridge | 2400 | Sunny 1BR")
	require.NoError(t, err)

	assert.Equal(t, "Bearer xoxb-test", gotAuth)
	assert.Equal(t, "#housing", gotBody["channel"])
	assert.Equal(t, "rockridge | 2400 | Sunny 1BR", gotBody["text"])
	assert.Equal(t, "aptscout", gotBody["username"])
}

func TestPostMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer srv.Close()

	c := NewClient("xoxb-test", WithBaseURL(srv.URL))
	err := c.PostMessage(context.Background(), "#nope", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestPostMessageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("xoxb-test", WithBaseURL(srv.URL))
	require.Error(t, c.PostMessage(context.Background(), "#housing", "hi"))
}
