package hunt

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptscout/aptscout/internal/config"
	"github.com/aptscout/aptscout/internal/model"
	"github.com/aptscout/aptscout/internal/monitoring"
)

type stubSource struct {
	listings map[string][]model.Listing
	errs     map[string]error
}

func (s *stubSource) Search(_ context.Context, area string) ([]model.Listing, error) {
	if err := s.errs[area]; err != nil {
		return nil, err
	}
	return s.listings[area], nil
}

type stubAnnotator struct {
	anns map[string]model.Annotation
	errs map[string]error
}

func (s *stubAnnotator) Annotate(_ context.Context, l model.Listing) (model.Annotation, error) {
	if err := s.errs[l.URL]; err != nil {
		return model.Annotation{}, err
	}
	return s.anns[l.URL], nil
}

type stubPoster struct {
	messages []string
	channels []string
	err      error
}

func (s *stubPoster) PostMessage(_ context.Context, channel, text string) error {
	if s.err != nil {
		return s.err
	}
	s.channels = append(s.channels, channel)
	s.messages = append(s.messages, text)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Source: config.SourceConfig{
			Areas:       []string{"eby"},
			MinPrice:    1000,
			MaxPrice:    4000,
			MinBedrooms: 1,
		},
		Slack: config.SlackConfig{Channel: "#housing"},
	}
}

func geotag(lat, lng float64) *model.Geotag {
	return &model.Geotag{Lat: lat, Lng: lng}
}

func accepted(area string) model.Annotation {
	return model.Annotation{
		Area:      area,
		AreaFound: true,
		Commutes: []model.CommuteOption{
			{Commuter: "alice", Mode: "transit", TimeMin: map[string]float64{"TRANSIT": 20}, TotalMin: 25},
		},
	}
}

func TestCyclePostsAcceptedListings(t *testing.T) {
	good := model.Listing{Name: "2BR", URL: "http://l/1", Price: 3000, Bedrooms: 2, Geotag: geotag(37.8, -122.2)}
	rejected := model.Listing{Name: "1BR", URL: "http://l/2", Price: 3000, Bedrooms: 1, Geotag: geotag(37.0, -122.0)}

	source := &stubSource{listings: map[string][]model.Listing{"eby": {good, rejected}}}
	annotator := &stubAnnotator{anns: map[string]model.Annotation{
		"http://l/1": accepted("rockridge"),
		"http://l/2": {AreaFound: false},
	}}
	poster := &stubPoster{}
	collector := monitoring.NewCollector()

	h := New(source, annotator, poster, testConfig(), collector)
	require.NoError(t, h.Cycle(context.Background()))

	require.Len(t, poster.messages, 1)
	assert.Contains(t, poster.messages[0], "rockridge | $3000 | 2BR")
	assert.Equal(t, []string{"#housing"}, poster.channels)

	snap := collector.Snapshot()
	assert.Equal(t, 1, snap.Cycles)
	assert.Equal(t, 2, snap.ListingsSeen)
	assert.Equal(t, 1, snap.ListingsPosted)
	assert.Zero(t, snap.ListingErrors)
}

func TestCycleWindowFilter(t *testing.T) {
	listings := []model.Listing{
		{Name: "cheap", URL: "http://l/1", Price: 500, Bedrooms: 2, Geotag: geotag(1, 1)},
		{Name: "pricey", URL: "http://l/2", Price: 9000, Bedrooms: 2, Geotag: geotag(1, 1)},
		{Name: "studio", URL: "http://l/3", Price: 2000, Bedrooms: 0, Geotag: geotag(1, 1)},
		{Name: "nowhere", URL: "http://l/4", Price: 2000, Bedrooms: 2},
	}
	source := &stubSource{listings: map[string][]model.Listing{"eby": listings}}
	annotator := &stubAnnotator{anns: map[string]model.Annotation{}}
	poster := &stubPoster{}

	h := New(source, annotator, poster, testConfig(), nil)
	require.NoError(t, h.Cycle(context.Background()))

	assert.Empty(t, poster.messages)
}

func TestCycleListingErrorDoesNotAbort(t *testing.T) {
	bad := model.Listing{Name: "bad", URL: "http://l/1", Price: 3000, Bedrooms: 2, Geotag: geotag(1, 1)}
	good := model.Listing{Name: "good", URL: "http://l/2", Price: 3000, Bedrooms: 2, Geotag: geotag(1, 1)}

	source := &stubSource{listings: map[string][]model.Listing{"eby": {bad, good}}}
	annotator := &stubAnnotator{
		anns: map[string]model.Annotation{"http://l/2": accepted("temescal")},
		errs: map[string]error{"http://l/1": eris.New("directions provider down")},
	}
	poster := &stubPoster{}
	collector := monitoring.NewCollector()

	h := New(source, annotator, poster, testConfig(), collector)
	require.NoError(t, h.Cycle(context.Background()))

	require.Len(t, poster.messages, 1)
	assert.Contains(t, poster.messages[0], "good")
	assert.Equal(t, 1, collector.Snapshot().ListingErrors)
}

func TestCycleAllAreasFailed(t *testing.T) {
	source := &stubSource{errs: map[string]error{"eby": eris.New("503")}}
	h := New(source, &stubAnnotator{}, &stubPoster{}, testConfig(), monitoring.NewCollector())

	err := h.Cycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every area fetch failed")
}

func TestCyclePartialAreaFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Source.Areas = []string{"eby", "sfc"}

	good := model.Listing{Name: "ok", URL: "http://l/1", Price: 3000, Bedrooms: 2, Geotag: geotag(1, 1)}
	source := &stubSource{
		listings: map[string][]model.Listing{"sfc": {good}},
		errs:     map[string]error{"eby": eris.New("timeout")},
	}
	annotator := &stubAnnotator{anns: map[string]model.Annotation{"http://l/1": accepted("mission")}}
	poster := &stubPoster{}

	h := New(source, annotator, poster, cfg, nil)
	require.NoError(t, h.Cycle(context.Background()))
	assert.Len(t, poster.messages, 1)
}
