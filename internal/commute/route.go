// Package commute evaluates candidate routes against per-commuter limits and
// decides whether a listing works for everyone tracked.
package commute

import (
	"github.com/aptscout/aptscout/pkg/directions"
)

// Metrics are the derived measurements for one candidate route. Times are in
// minutes; Extra is leg time not attributed to any step's travel mode
// (the provider's waiting and transfer gaps).
type Metrics struct {
	TimeMin  map[string]float64
	TotalMin float64
	ExtraMin float64
	Fare     float64
	Steps    map[string]int
}

// EvaluateRoute computes Metrics for a single route. All durations are
// accumulated in seconds and converted to minutes once at the end, so
// repeated unit conversion cannot drift the extra-time figure. A leg with no
// steps contributes its whole duration to extra time.
func EvaluateRoute(r directions.Route) Metrics {
	timeSecs := map[string]int{}
	steps := map[string]int{}

	totalSecs := 0
	extraSecs := 0
	for _, leg := range r.Legs {
		totalSecs += leg.Duration.Value
		extraSecs += leg.Duration.Value

		for _, step := range leg.Steps {
			if step.TravelMode == "" {
				continue
			}
			steps[step.TravelMode]++
			timeSecs[step.TravelMode] += step.Duration.Value
			extraSecs -= step.Duration.Value
		}
	}

	timeMin := make(map[string]float64, len(timeSecs))
	for mode, secs := range timeSecs {
		timeMin[mode] = float64(secs) / 60.0
	}

	return Metrics{
		TimeMin:  timeMin,
		TotalMin: float64(totalSecs) / 60.0,
		ExtraMin: float64(extraSecs) / 60.0,
		Fare:     r.Cost(),
		Steps:    steps,
	}
}

// Flatten renders the metrics as dotted numeric keys, the same shape the
// limits table uses: fare, total, extra, time.<MODE>, steps.<MODE>.
func (m Metrics) Flatten() map[string]float64 {
	flat := map[string]float64{
		"fare":  m.Fare,
		"total": m.TotalMin,
		"extra": m.ExtraMin,
	}
	for mode, min := range m.TimeMin {
		flat["time."+mode] = min
	}
	for mode, n := range m.Steps {
		flat["steps."+mode] = float64(n)
	}
	return flat
}
