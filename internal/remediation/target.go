package remediation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/params"
)

// TargetStrategy proposes trimming a goal's target amount. Critical
// categories never shrink beyond the configured minimum; everything else is
// bounded by a flexibility-dependent maximum.
type TargetStrategy struct {
	resolver *params.Resolver
	log      *logrus.Logger
	now      func() time.Time
}

// NewTargetStrategy creates the strategy.
func NewTargetStrategy(resolver *params.Resolver, log *logrus.Logger) *TargetStrategy {
	return &TargetStrategy{resolver: resolver, log: log, now: time.Now}
}

func (s *TargetStrategy) config(profile *domain.Profile) strategyConfig {
	return loadConfig(s.resolver, profile, map[string]float64{
		"remediation.target.min_reduction_pct":      5,
		"remediation.target.max_reduction_critical": 10,
		"remediation.target.max_reduction_moderate": 20,
		"remediation.target.max_reduction_default":  25,
		"remediation.target.optimal_factor":         0.10,
	})
}

// maxReductionPct is the category- and flexibility-dependent ceiling.
func (s *TargetStrategy) maxReductionPct(goal *domain.Goal, cfg strategyConfig) float64 {
	switch {
	case goal.Category.IsCritical():
		return cfg.V("remediation.target.max_reduction_critical")
	case goal.Flexibility == domain.FlexibilitySomewhat:
		return cfg.V("remediation.target.max_reduction_moderate")
	default:
		return cfg.V("remediation.target.max_reduction_default")
	}
}

// EstimateRequiredReduction returns the percentage of the target that must
// go to make the goal fundable: for critical categories always the
// minimum; otherwise the slice of the gap that capacity cannot cover over
// the remaining timeframe, clamped to the configured bounds.
func (s *TargetStrategy) EstimateRequiredReduction(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) float64 {
	cfg := s.config(profile)
	min := cfg.V("remediation.target.min_reduction_pct")

	if goal.Category.IsCritical() {
		return min
	}
	if !gap.TargetAmount.IsPositive() {
		return min
	}

	coverable := profile.SavingsCapacityMonthly().Mul(decimal.NewFromInt(int64(gap.TimeframeMonths)))
	uncovered := gap.GapAmount.Sub(coverable)
	if uncovered.IsNegative() {
		uncovered = decimal.Zero
	}
	pct := uncovered.Div(gap.TargetAmount).InexactFloat64() * 100
	return clamp(pct, min, s.maxReductionPct(goal, cfg))
}

// TargetImpact describes what a reduction does to the goal.
type TargetImpact struct {
	ReductionPct        float64         `json:"reduction_percentage"`
	NewTarget           decimal.Decimal `json:"new_target"`
	ProgressImprovement float64         `json:"progress_improvement"` // percentage points
	QualityImpact       string          `json:"quality_impact"`       // Minimal, Moderate, Significant
	ScopeSuggestions    []string        `json:"scope_suggestions"`
	CulturalNote        string          `json:"cultural_note,omitempty"`
}

// AnalyzeTargetImpact computes the new target, the jump in progress
// percentage, the quality tier and the category-specific scope advice.
func (s *TargetStrategy) AnalyzeTargetImpact(goal *domain.Goal, gap *domain.GapResult, reductionPct float64, profile *domain.Profile) *TargetImpact {
	factor := decimal.NewFromFloat(1 - reductionPct/100)
	newTarget := gap.TargetAmount.Mul(factor).Round(0)

	progressBefore, progressAfter := 0.0, 0.0
	if gap.TargetAmount.IsPositive() {
		progressBefore = gap.CurrentAmount.Div(gap.TargetAmount).InexactFloat64() * 100
	}
	if newTarget.IsPositive() {
		progressAfter = gap.CurrentAmount.Div(newTarget).InexactFloat64() * 100
	}

	var quality string
	switch {
	case reductionPct <= 10:
		quality = "Minimal"
	case reductionPct <= 20:
		quality = "Moderate"
	default:
		quality = "Significant"
	}

	suggestions, note := scopeSuggestions(goal.Category)
	return &TargetImpact{
		ReductionPct:        reductionPct,
		NewTarget:           newTarget,
		ProgressImprovement: progressAfter - progressBefore,
		QualityImpact:       quality,
		ScopeSuggestions:    suggestions,
		CulturalNote:        note,
	}
}

// scopeSuggestions returns the category's scope-trimming playbook and the
// cultural framing that goes with it.
func scopeSuggestions(cat domain.Category) ([]string, string) {
	switch cat {
	case domain.CategoryEducation:
		return []string{
				"Prefer a state or central university over a private one",
				"Consider an education loan for the last-mile shortfall; interest carries a Section 80E deduction",
				"Look at scholarship and merit-waiver routes early",
			},
			"Education spending signals family standing; frame the change as a funding-mix decision, not a cut"
	case domain.CategoryWedding:
		return []string{
				"Trim the guest list before trimming the ceremonies",
				"Shift venue to an off-season or weekday date",
				"Lease jewellery sets instead of buying every piece",
			},
			"Wedding budgets involve both families; agree the revised number jointly before announcing it"
	case domain.CategoryHomePurchase:
		return []string{
				"Consider an adjacent locality or a slightly smaller carpet area",
				"Look at nearly-ready resale flats over new launches",
				"Increase the loan component if EMI headroom allows",
			},
			"A first home purchase is often a joint-family decision; involve elders in the revised plan"
	case domain.CategoryTravel:
		return []string{
				"Swap an international leg for a domestic destination",
				"Travel shoulder-season for the same itinerary at lower fares",
			}, ""
	case domain.CategoryRetirement:
		return []string{
				"Model a slightly simpler retirement lifestyle",
				"Plan part-time consulting income for the first retired decade",
			}, ""
	default:
		return []string{
			"Re-scope the goal to its essential core",
			"Split the goal into a funded now-phase and a deferred later-phase",
		}, ""
	}
}

// FindOptimalReduction picks the reduction to recommend: critical goals use
// exactly the minimum, moderate-flexibility goals pad the requirement 10%,
// everything else takes the larger of the requirement and the configured
// optimal fraction — all capped by the category maximum.
func (s *TargetStrategy) FindOptimalReduction(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) float64 {
	cfg := s.config(profile)
	required := s.EstimateRequiredReduction(goal, gap, profile)
	max := s.maxReductionPct(goal, cfg)

	var optimal float64
	switch {
	case goal.Category.IsCritical():
		optimal = cfg.V("remediation.target.min_reduction_pct")
	case goal.Flexibility == domain.FlexibilitySomewhat:
		optimal = required * 1.1
	default:
		optimal = clamp(cfg.V("remediation.target.optimal_factor")*100, required, max)
	}
	return clamp(optimal, cfg.V("remediation.target.min_reduction_pct"), max)
}

// BuildOption wraps the optimal reduction into a remediation option.
func (s *TargetStrategy) BuildOption(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) *domain.RemediationOption {
	reduction := s.FindOptimalReduction(goal, gap, profile)
	impact := s.AnalyzeTargetImpact(goal, gap, reduction, profile)

	// Cutting a target is financially trivial and emotionally expensive;
	// feasibility tracks the goal's stated flexibility.
	feasibility := 80.0
	switch goal.Flexibility {
	case domain.FlexibilityFixed:
		feasibility = 40
	case domain.FlexibilitySomewhat:
		feasibility = 65
	}
	if goal.Category.IsCritical() {
		feasibility = 30
	}

	gapReduction := 0.0
	if gap.GapAmount.IsPositive() {
		removed := gap.TargetAmount.Sub(impact.NewTarget)
		gapReduction = clamp(removed.Div(gap.GapAmount).InexactFloat64()*100, 0, 100)
	}

	steps := []domain.ImplementationStep{
		{Action: "Revise the target amount", Note: fmt.Sprintf("₹%s → ₹%s (−%.1f%%)", gap.TargetAmount.Round(0), impact.NewTarget, reduction)},
	}
	for _, sg := range impact.ScopeSuggestions {
		steps = append(steps, domain.ImplementationStep{Action: sg})
	}
	if impact.CulturalNote != "" {
		steps = append(steps, domain.ImplementationStep{Action: "Discuss with the family", Note: impact.CulturalNote})
	}

	return &domain.RemediationOption{
		Description:      "Reduce Target Amount",
		FeasibilityScore: feasibility,
		ImpactMetrics: map[string]float64{
			domain.MetricGapReductionPct:    gapReduction,
			domain.MetricTargetReductionPct: reduction,
			domain.MetricTargetAdjustment:   gap.TargetAmount.Sub(impact.NewTarget).InexactFloat64(),
		},
		ImplementationSteps: steps,
	}
}
