package shorten

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShorten(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://www.google.com/maps/dir/?api=1", req["url"])
		assert.Equal(t, "/create", r.URL.Path)
		w.Write([]byte(`{"data": {"tiny_url": "https://tinyurl.com/abc123"}}`))
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	short, err := c.Shorten(context.Background(), "https://www.google.com/maps/dir/?api=1")
	require.NoError(t, err)
	assert.Equal(t, "https://tinyurl.com/abc123", short)
}

func TestShortenEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	_, err := c.Shorten(context.Background(), "https://example.com")
	require.Error(t, err)
}

func TestShortenHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.Shorten(context.Background(), "https://example.com")
	require.Error(t, err)
}
