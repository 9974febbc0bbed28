// Package craigslist fetches apartment listings from Craigslist's map search
// endpoint. The rest of the system treats it as an opaque source of raw
// listing records.
package craigslist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aptscout/aptscout/internal/model"
	"github.com/aptscout/aptscout/internal/resilience"
)

// Query carries the static search parameters shared by every fetch.
type Query struct {
	Site        string
	Section     string
	MinPrice    int
	MaxPrice    int
	MinBedrooms int
}

// Client searches one Craigslist area for listings matching the query.
type Client interface {
	Search(ctx context.Context, area string) ([]model.Listing, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithBaseURL overrides the site-derived base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithRetry overrides the retry policy for transient fetch failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	query   Query
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a Craigslist client for the given query.
func NewClient(query Query, opts ...Option) Client {
	c := &httpClient{
		query:   query,
		baseURL: fmt.Sprintf("https://%s.craigslist.org", query.Site),
		http:    &http.Client{Timeout: 30 * time.Second},
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// item is one entry in the map search response. Cluster entries carry a
// GeoCluster URL instead of a posting and are skipped.
type item struct {
	PostingID    json.Number `json:"PostingID"`
	PostingTitle string      `json:"PostingTitle"`
	PostingURL   string      `json:"PostingURL"`
	Ask          json.Number `json:"Ask"`
	Bedrooms     json.Number `json:"Bedrooms"`
	Latitude     float64     `json:"Latitude"`
	Longitude    float64     `json:"Longitude"`
	Location     string      `json:"Location"`
	PostedDate   json.Number `json:"PostedDate"`
	GeoCluster   string      `json:"GeoCluster"`
	ImagesCount  int         `json:"ImagesCount"`
}

func (c *httpClient) Search(ctx context.Context, area string) ([]model.Listing, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]model.Listing, error) {
		return c.searchOnce(ctx, area)
	})
}

func (c *httpClient) searchOnce(ctx context.Context, area string) ([]model.Listing, error) {
	params := url.Values{"map": {"1"}}
	if c.query.MinPrice > 0 {
		params.Set("min_price", strconv.Itoa(c.query.MinPrice))
	}
	if c.query.MaxPrice > 0 {
		params.Set("max_price", strconv.Itoa(c.query.MaxPrice))
	}
	if c.query.MinBedrooms > 0 {
		params.Set("min_bedrooms", strconv.Itoa(c.query.MinBedrooms))
	}

	reqURL := fmt.Sprintf("%s/jsonsearch/%s/%s/?%s", c.baseURL, c.query.Section, area, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "craigslist: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "craigslist: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "craigslist: read response")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("craigslist: status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("craigslist: unexpected status %d", resp.StatusCode)
	}

	// The endpoint returns a two-element array: [items, meta].
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, eris.Wrap(err, "craigslist: unmarshal envelope")
	}
	if len(envelope) == 0 {
		return nil, nil
	}

	var items []item
	if err := json.Unmarshal(envelope[0], &items); err != nil {
		return nil, eris.Wrap(err, "craigslist: unmarshal items")
	}

	listings := make([]model.Listing, 0, len(items))
	for _, it := range items {
		if it.GeoCluster != "" || it.PostingURL == "" {
			continue
		}
		listings = append(listings, c.toListing(it))
	}
	return listings, nil
}

func (c *httpClient) toListing(it item) model.Listing {
	l := model.Listing{
		Name:     it.PostingTitle,
		URL:      absoluteURL(c.baseURL, it.PostingURL),
		Where:    it.Location,
		SourceID: it.PostingID.String(),
		HasImage: it.ImagesCount > 0,
	}
	if price, err := it.Ask.Float64(); err == nil {
		l.Price = price
	}
	if beds, err := it.Bedrooms.Int64(); err == nil {
		l.Bedrooms = int(beds)
	}
	if it.Latitude != 0 || it.Longitude != 0 {
		l.Geotag = &model.Geotag{Lat: it.Latitude, Lng: it.Longitude}
	}
	if posted, err := it.PostedDate.Int64(); err == nil && posted > 0 {
		l.PostedAt = time.Unix(posted, 0).UTC()
	}
	return l
}

// absoluteURL resolves protocol-relative and path-relative posting URLs.
func absoluteURL(base, u string) string {
	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return base + u
	default:
		return u
	}
}
