// Package impact scores remediation options along feasibility, emotional,
// difficulty and sensitivity dimensions and compares competing options.
package impact

import (
	"strings"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// indianProductKeywords mark implementation steps that reference
// India-specific financial products. Step density of these nudges the
// context factor, and they earn bonuses in the Indian ranking.
var indianProductKeywords = []string{
	"elss", "ppf", "nps", "sip", "stp", "80c", "80d", "80e",
	"sukanya", "fd", "sovereign gold", "sgb", "index fund", "flexi-cap",
}

// familyKeywords mark steps that require buy-in from the wider family.
var familyKeywords = []string{
	"family", "elders", "joint", "spouse", "parents", "discuss",
}

func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// incomeSensitivityFactor penalizes contribution changes that eat a large
// share of monthly income. Under 10% of income is painless, past 30% the
// option is close to theoretical.
func incomeSensitivityFactor(opt *domain.RemediationOption, profile *domain.Profile) float64 {
	adj := opt.Metric(domain.MetricMonthlyAdjustment, 0)
	if adj <= 0 {
		return 1.0
	}
	income := profile.IncomeMonthly().InexactFloat64()
	if income <= 0 {
		return 0.5
	}
	share := adj / income
	switch {
	case share <= 0.10:
		return 1.0
	case share <= 0.20:
		return 0.85
	case share <= 0.30:
		return 0.65
	default:
		return 0.45
	}
}

// timeframeFactor slightly discounts options that lean on long extensions.
// Pushing a date out is easy to promise and hard to honor.
func timeframeFactor(opt *domain.RemediationOption) float64 {
	ext := opt.Metric(domain.MetricTimeframeExtension, 0)
	switch {
	case ext <= 0:
		return 1.0
	case ext <= 6:
		return 0.95
	case ext <= 12:
		return 0.90
	default:
		return 0.82
	}
}

// indianContextFactor blends the joint-family flag with the density of
// India-specific product steps. Bounded to 0.7-1.2.
func indianContextFactor(opt *domain.RemediationOption, profile *domain.Profile) float64 {
	factor := 1.0
	if profile != nil && profile.Family.JointFamily {
		for _, step := range opt.ImplementationSteps {
			if containsAny(step.Action+" "+step.Note, familyKeywords) {
				// Family coordination steps are slower in a joint household.
				factor -= 0.05
			}
		}
	}
	productSteps := 0
	for _, step := range opt.ImplementationSteps {
		if containsAny(step.Action+" "+step.Note, indianProductKeywords) {
			productSteps++
		}
	}
	if n := len(opt.ImplementationSteps); n > 0 {
		density := float64(productSteps) / float64(n)
		// Familiar domestic products make an option easier to execute.
		factor += 0.2 * density
	}
	return clampF(factor, 0.7, 1.2)
}

// CalculateFeasibilityScore refines an option's self-reported feasibility
// with income, timeframe and Indian-context adjustments. Result is 0-100.
func CalculateFeasibilityScore(opt *domain.RemediationOption, profile *domain.Profile) float64 {
	score := opt.FeasibilityScore
	score *= incomeSensitivityFactor(opt, profile)
	score *= timeframeFactor(opt)
	score *= indianContextFactor(opt, profile)
	return clampF(score, 0, 100)
}
