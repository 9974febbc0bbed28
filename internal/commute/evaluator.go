package commute

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aptscout/aptscout/internal/config"
	"github.com/aptscout/aptscout/internal/model"
	"github.com/aptscout/aptscout/pkg/directions"
)

// Shortener produces a short link for a long URL.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Evaluator decides, per commuter and travel mode, which candidate routes
// satisfy the commuter's limits, and retains the cheapest passing option.
// It holds no per-listing state: evaluation is a pure function of the
// configuration and the provider's responses.
type Evaluator struct {
	client     directions.Client
	commuters  []config.Commuter
	modes      []string
	shortener  Shortener
	alternates bool
	now        func() time.Time
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithShortener attaches a link shortener for the per-option maps link.
func WithShortener(s Shortener) EvaluatorOption {
	return func(e *Evaluator) {
		e.shortener = s
	}
}

// WithAlternates asks the provider for alternate routes on every lookup.
func WithAlternates(enabled bool) EvaluatorOption {
	return func(e *Evaluator) {
		e.alternates = enabled
	}
}

// WithClock overrides the time source used to compute arrival times.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

// NewEvaluator creates an Evaluator for the configured commuters and modes.
func NewEvaluator(client directions.Client, commuters []config.Commuter, modes []string, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		client:    client,
		commuters: commuters,
		modes:     modes,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate checks the commute from the listing position to every commuter's
// workplace. The returned options hold at most one entry per commuter: the
// cheapest passing route across all modes. If any commuter has no passing
// option at all, the result is empty: acceptance is all-commuters-or-nothing.
// Provider errors propagate; there is no per-request retry at this layer.
func (e *Evaluator) Evaluate(ctx context.Context, origin model.Geotag) ([]model.CommuteOption, error) {
	var options []model.CommuteOption
	allSatisfied := true

	for _, commuter := range e.commuters {
		arrival, err := commuter.NextArrival(e.now())
		if err != nil {
			return nil, err
		}

		best, err := e.bestForCommuter(ctx, commuter, origin, arrival)
		if err != nil {
			return nil, err
		}
		if best == nil {
			allSatisfied = false
			continue
		}
		options = append(options, *best)
	}

	if !allSatisfied {
		return nil, nil
	}
	return options, nil
}

// bestForCommuter returns the cheapest passing option across all modes for
// one commuter, or nil when nothing passes. Ties on fare keep the first
// option encountered, in configured mode order then provider route order.
func (e *Evaluator) bestForCommuter(ctx context.Context, commuter config.Commuter, origin model.Geotag, arrival time.Time) (*model.CommuteOption, error) {
	var best *model.CommuteOption
	var bestRoute directions.Route

	for _, mode := range e.modes {
		modeKey := strings.ToUpper(mode)

		// A zero ceiling disqualifies the mode outright; don't spend a
		// provider call on something we would immediately throw out.
		if commuter.Limits["time."+modeKey] == 0 {
			continue
		}

		routes, err := e.client.Routes(ctx, directions.Request{
			Origin:            fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
			Destination:       commuter.Work,
			Mode:              mode,
			ArrivalTime:       arrival,
			Alternatives:      e.alternates,
			RoutingPreference: directions.PreferFewerTransfers,
		})
		if err != nil {
			return nil, err
		}

		for _, route := range routes {
			metrics := EvaluateRoute(route)
			if !CheckLimits(metrics, commuter.Limits).Passed() {
				continue
			}
			if best == nil || metrics.Fare < best.Fare {
				opt := buildOption(commuter.Name, mode, metrics)
				best = &opt
				bestRoute = route
			}
		}
	}

	if best != nil {
		best.MapsURL = e.mapsLink(ctx, bestRoute, best.Mode)
	}
	return best, nil
}

// mapsLink builds the human-facing directions link for the retained route,
// shortened when a shortener is configured. Shortener failures fall back to
// the long URL; they never abort the evaluation.
func (e *Evaluator) mapsLink(ctx context.Context, route directions.Route, mode string) string {
	longURL := directions.MapsURL(route, mode)
	if longURL == "" || e.shortener == nil {
		return longURL
	}
	short, err := e.shortener.Shorten(ctx, longURL)
	if err != nil {
		zap.L().Warn("commute: link shortener failed, keeping long url", zap.Error(err))
		return longURL
	}
	return short
}

func buildOption(commuter, mode string, m Metrics) model.CommuteOption {
	timeMin := make(map[string]float64, len(m.TimeMin))
	for k, v := range m.TimeMin {
		timeMin[k] = v
	}
	steps := make(map[string]int, len(m.Steps))
	for k, v := range m.Steps {
		steps[k] = v
	}
	return model.CommuteOption{
		Commuter: commuter,
		Mode:     mode,
		TimeMin:  timeMin,
		TotalMin: m.TotalMin,
		ExtraMin: m.ExtraMin,
		Fare:     m.Fare,
		Steps:    steps,
	}
}
