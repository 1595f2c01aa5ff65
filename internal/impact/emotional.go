package impact

import (
	"fmt"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// EmotionalImpact is the qualitative read on how an option will feel to
// live with, beyond the arithmetic.
type EmotionalImpact struct {
	StressLevel        string `json:"stress_level"`        // Low, Moderate, High
	Satisfaction       string `json:"satisfaction"`        // Low, Moderate, High
	FamilyImplications string `json:"family_implications"` // Minimal, Moderate, Significant
	CulturalAlignment  string `json:"cultural_alignment"`  // Aligned, Neutral, Strained
	Summary            string `json:"summary"`
}

// complexStepKeywords flag implementation steps that demand sustained
// attention or negotiation rather than a single action.
var complexStepKeywords = []string{
	"rebalance", "negotiat", "loan", "discuss", "coordinate", "review",
	"restructure", "agree", "transition",
}

// culturalStrainKeywords flag steps that cut against social expectations.
var culturalStrainKeywords = []string{
	"reduce", "trim", "defer", "cut", "smaller", "cancel", "postpone",
}

// culturalAlignKeywords flag steps phrased in familiar domestic terms.
var culturalAlignKeywords = []string{
	"gold", "sip", "family", "elders", "festival", "bonus", "ppf", "fd",
}

// AnalyzeEmotionalImpact derives the stress, satisfaction, family and
// cultural tiers for one option and composes a one-line summary.
func AnalyzeEmotionalImpact(opt *domain.RemediationOption, goal *domain.Goal, profile *domain.Profile) *EmotionalImpact {
	complexSteps := 0
	strained, aligned := 0, 0
	for _, step := range opt.ImplementationSteps {
		text := step.Action + " " + step.Note
		if containsAny(text, complexStepKeywords) {
			complexSteps++
		}
		if containsAny(text, culturalStrainKeywords) {
			strained++
		}
		if containsAny(text, culturalAlignKeywords) {
			aligned++
		}
	}

	out := &EmotionalImpact{}

	complexFrac := 0.0
	if n := len(opt.ImplementationSteps); n > 0 {
		complexFrac = float64(complexSteps) / float64(n)
	}
	switch {
	case complexFrac <= 0.25:
		out.StressLevel = "Low"
	case complexFrac <= 0.5:
		out.StressLevel = "Moderate"
	default:
		out.StressLevel = "High"
	}

	gapReduction := opt.Metric(domain.MetricGapReductionPct, 0)
	switch {
	case gapReduction >= 60:
		out.Satisfaction = "High"
	case gapReduction >= 25:
		out.Satisfaction = "Moderate"
	default:
		out.Satisfaction = "Low"
	}

	monthlyAdj := opt.Metric(domain.MetricMonthlyAdjustment, 0)
	income := profile.IncomeMonthly().InexactFloat64()
	bigChange := income > 0 && monthlyAdj/income > 0.15
	targetCut := opt.Metric(domain.MetricTargetReductionPct, 0) > 0
	switch {
	case profile.Family.JointFamily && (bigChange || targetCut):
		out.FamilyImplications = "Significant"
	case bigChange || targetCut || profile.Family.JointFamily:
		out.FamilyImplications = "Moderate"
	default:
		out.FamilyImplications = "Minimal"
	}

	strainScore := strained
	if targetCut && goal != nil && goal.Category.IsCulturallySensitive() {
		strainScore += 2
	}
	switch {
	case aligned > strainScore:
		out.CulturalAlignment = "Aligned"
	case strainScore > aligned+1:
		out.CulturalAlignment = "Strained"
	default:
		out.CulturalAlignment = "Neutral"
	}

	out.Summary = fmt.Sprintf(
		"%s stress, %s satisfaction once done; family impact %s, culturally %s.",
		out.StressLevel, out.Satisfaction, out.FamilyImplications, out.CulturalAlignment)
	return out
}
