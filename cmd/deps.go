package main

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aptscout/aptscout/internal/commute"
	"github.com/aptscout/aptscout/internal/config"
	"github.com/aptscout/aptscout/internal/geo"
	"github.com/aptscout/aptscout/internal/hunt"
	"github.com/aptscout/aptscout/internal/monitoring"
	"github.com/aptscout/aptscout/internal/resilience"
	"github.com/aptscout/aptscout/internal/store"
	"github.com/aptscout/aptscout/pkg/craigslist"
	"github.com/aptscout/aptscout/pkg/directions"
	"github.com/aptscout/aptscout/pkg/shorten"
	"github.com/aptscout/aptscout/pkg/slack"
)

// env bundles everything a scrape cycle needs, with one Close for the lot.
type env struct {
	Hunter    *hunt.Hunter
	Collector *monitoring.Collector
	annotator *commute.Annotator
	cache     *store.DirectionsCache
}

func (e *env) Close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			zap.L().Warn("close directions cache", zap.Error(err))
		}
	}
}

func buildEnv(cfg *config.Config) (*env, error) {
	areas, err := geo.LoadBoxes(cfg.Boxes, cfg.BoxOrder)
	if err != nil {
		return nil, eris.Wrap(err, "load boxes")
	}
	classifier := geo.NewClassifier(areas, cfg.Neighborhoods)

	var client directions.Client = directions.NewClient(cfg.Maps.Key,
		directions.WithBaseURL(cfg.Maps.BaseURL),
		directions.WithRateLimit(cfg.Maps.QPS),
	)

	e := &env{Collector: monitoring.NewCollector()}

	if cfg.Cache.Enabled {
		cache, err := store.NewDirectionsCache(cfg.Cache.Path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			return nil, eris.Wrap(err, "open directions cache")
		}
		e.cache = cache
		client = directions.NewCached(client, cache)
	}

	// Alternate routes widen the search in production; dev mode keeps
	// lookups cheap.
	opts := []commute.EvaluatorOption{commute.WithAlternates(!cfg.Dev)}
	if cfg.Shorten.Key != "" {
		opts = append(opts, commute.WithShortener(shorten.NewClient(cfg.Shorten.Key, shorten.WithBaseURL(cfg.Shorten.BaseURL))))
	}
	evaluator := commute.NewEvaluator(client, cfg.Commuters, cfg.Modes, opts...)
	annotator := commute.NewAnnotator(classifier, evaluator)
	e.annotator = annotator

	retry := resilience.DefaultRetryConfig()
	if cfg.Source.Retries > 0 {
		retry.MaxAttempts = cfg.Source.Retries
	}
	source := craigslist.NewClient(
		craigslist.Query{
			Site:        cfg.Source.Site,
			Section:     cfg.Source.Section,
			MinPrice:    cfg.Source.MinPrice,
			MaxPrice:    cfg.Source.MaxPrice,
			MinBedrooms: cfg.Source.MinBedrooms,
		},
		craigslist.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Source.TimeoutSecs) * time.Second}),
		craigslist.WithRetry(retry),
	)
	poster := slack.NewClient(cfg.Slack.Token, slack.WithBaseURL(cfg.Slack.BaseURL))

	e.Hunter = hunt.New(source, annotator, poster, cfg, e.Collector)
	return e, nil
}
