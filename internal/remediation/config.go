// Package remediation generates and evaluates remediation options for goal
// funding gaps: extending timeframes, raising contributions, shifting
// allocations, trimming targets and reprioritizing across goals.
package remediation

import (
	"math"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/params"
)

// strategyConfig is a resolved bundle of tunables for one strategy run:
// each strategy declares its defaults once and overlays stored parameter
// values (with per-user overrides) through a single call, instead of
// repeating the lookup dance per field.
type strategyConfig struct {
	values map[string]float64
}

// loadConfig overlays parameter-store values onto the declared defaults.
func loadConfig(resolver *params.Resolver, profile *domain.Profile, defaults map[string]float64) strategyConfig {
	userID := ""
	if profile != nil {
		userID = profile.UserID
	}
	values := make(map[string]float64, len(defaults))
	for path, def := range defaults {
		values[path] = resolver.Get(path, def, userID)
	}
	return strategyConfig{values: values}
}

// V returns the resolved value for a declared path. Undeclared paths return
// zero; that is a programming error, not a data condition.
func (c strategyConfig) V(path string) float64 {
	return c.values[path]
}

// Int returns the resolved value rounded to an int.
func (c strategyConfig) Int(path string) int {
	return int(math.Round(c.values[path]))
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
