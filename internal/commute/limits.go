package commute

import (
	"github.com/aptscout/aptscout/internal/config"
)

// CheckResult records, per dotted metric key, whether the metric stayed at or
// under its ceiling.
type CheckResult map[string]bool

// Passed reports whether every checked metric was within its ceiling.
func (r CheckResult) Passed() bool {
	for _, ok := range r {
		if !ok {
			return false
		}
	}
	return true
}

// CheckLimits compares each flattened metric against the matching ceiling in
// limits. Metric keys absent from limits are ignored here; config validation
// guarantees every tracked key carries a ceiling or an explicit unbounded
// marker, so nothing relevant can go silently unchecked. Unbounded keys
// always pass.
func CheckLimits(m Metrics, limits map[string]float64) CheckResult {
	result := CheckResult{}
	for key, value := range m.Flatten() {
		ceiling, ok := limits[key]
		if !ok {
			continue
		}
		if ceiling == config.Unbounded {
			result[key] = true
			continue
		}
		result[key] = value <= ceiling
	}
	return result
}
