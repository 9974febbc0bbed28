// Package hunt runs the scrape cycle: pull fresh listings from the source,
// filter them into the configured window, annotate each with an area and
// commute options, and post the ones that pass to chat.
package hunt

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aptscout/aptscout/internal/config"
	"github.com/aptscout/aptscout/internal/model"
	"github.com/aptscout/aptscout/internal/monitoring"
)

// Source pulls raw listings for one search area.
type Source interface {
	Search(ctx context.Context, area string) ([]model.Listing, error)
}

// Annotator attaches an area and commute options to a listing.
type Annotator interface {
	Annotate(ctx context.Context, listing model.Listing) (model.Annotation, error)
}

// Poster delivers a message to a chat channel.
type Poster interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// Hunter drives one scrape cycle end to end.
type Hunter struct {
	source    Source
	annotator Annotator
	poster    Poster
	cfg       *config.Config
	collector *monitoring.Collector
}

// New creates a Hunter. collector may be nil when stats are not wanted.
func New(source Source, annotator Annotator, poster Poster, cfg *config.Config, collector *monitoring.Collector) *Hunter {
	return &Hunter{
		source:    source,
		annotator: annotator,
		poster:    poster,
		cfg:       cfg,
		collector: collector,
	}
}

// Cycle runs one pass over every configured search area. Failures on a
// single listing or a single area are logged and skipped so one bad posting
// never starves the rest of the cycle. It returns an error only when every
// area fetch failed.
func (h *Hunter) Cycle(ctx context.Context) error {
	start := time.Now()
	var seen, posted, listingErrs, areaErrs int

	for _, area := range h.cfg.Source.Areas {
		listings, err := h.source.Search(ctx, area)
		if err != nil {
			areaErrs++
			zap.L().Error("hunt: area fetch failed",
				zap.String("area", area),
				zap.Error(err))
			continue
		}
		seen += len(listings)

		for _, listing := range listings {
			if !h.inWindow(listing) {
				continue
			}
			ok, err := h.process(ctx, listing)
			if err != nil {
				listingErrs++
				zap.L().Error("hunt: listing failed",
					zap.String("url", listing.URL),
					zap.Error(err))
				continue
			}
			if ok {
				posted++
			}
		}
	}

	failed := len(h.cfg.Source.Areas) > 0 && areaErrs == len(h.cfg.Source.Areas)
	if h.collector != nil {
		h.collector.CycleDone(seen, posted, listingErrs, time.Since(start), failed)
	}
	zap.L().Info("hunt: cycle done",
		zap.Int("seen", seen),
		zap.Int("posted", posted),
		zap.Int("listing_errors", listingErrs),
		zap.Duration("took", time.Since(start)))

	if failed {
		return eris.New("hunt: every area fetch failed")
	}
	return nil
}

// inWindow reports whether a listing is worth evaluating at all: priced
// inside the configured band, enough bedrooms, and carrying at least one
// classifiable signal (coordinates or location text).
func (h *Hunter) inWindow(listing model.Listing) bool {
	src := h.cfg.Source
	if listing.Price < float64(src.MinPrice) {
		return false
	}
	if src.MaxPrice > 0 && listing.Price > float64(src.MaxPrice) {
		return false
	}
	if listing.Bedrooms < src.MinBedrooms {
		return false
	}
	if listing.Geotag == nil && listing.Where == "" {
		return false
	}
	return true
}

func (h *Hunter) process(ctx context.Context, listing model.Listing) (bool, error) {
	ann, err := h.annotator.Annotate(ctx, listing)
	if err != nil {
		return false, eris.Wrap(err, "hunt: annotate")
	}
	if !ann.Accepted() {
		return false, nil
	}

	msg := FormatMessage(listing, ann)
	if msg == "" {
		zap.L().Warn("hunt: empty message after sanitize, dropping",
			zap.String("url", listing.URL))
		return false, nil
	}
	if err := h.poster.PostMessage(ctx, h.cfg.Slack.Channel, msg); err != nil {
		return false, eris.Wrap(err, "hunt: post")
	}
	return true, nil
}
