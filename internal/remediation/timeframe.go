package remediation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/finmath"
	"github.com/niveshlabs/goalplan/internal/params"
	"github.com/niveshlabs/goalplan/pkg/dateutil"
)

// TimeframeStrategy proposes extending a goal's deadline. Extensions are in
// months and may be fractional, because the cultural cap for delay-sensitive
// goals is a percentage of the original timeframe.
type TimeframeStrategy struct {
	resolver *params.Resolver
	log      *logrus.Logger
	now      func() time.Time
}

// NewTimeframeStrategy creates the strategy.
func NewTimeframeStrategy(resolver *params.Resolver, log *logrus.Logger) *TimeframeStrategy {
	return &TimeframeStrategy{resolver: resolver, log: log, now: time.Now}
}

func (s *TimeframeStrategy) config(profile *domain.Profile) strategyConfig {
	return loadConfig(s.resolver, profile, map[string]float64{
		"remediation.timeframe.min_extension_months": 3,
		"remediation.timeframe.cultural_cap_fraction": 0.15,
		"remediation.timeframe.target_fraction":       0.25,
		"remediation.timeframe.max_fraction":          0.50,
		"remediation.timeframe.max_floor_months":      6,
		"inflation.general":                           0.06,
		"returns.assumed_annual":                      0.08,
	})
}

// TimeframeImpact describes what an extension buys and what it costs.
type TimeframeImpact struct {
	ExtensionMonths        float64         `json:"extension_months"`
	NewTargetDate          time.Time       `json:"new_target_date"`
	OldRequiredMonthly     decimal.Decimal `json:"old_required_monthly"`
	NewRequiredMonthly     decimal.Decimal `json:"new_required_monthly"`
	ContributionReduction  decimal.Decimal `json:"contribution_reduction"`
	InflationCostOfDelay   decimal.Decimal `json:"inflation_cost_of_delay"`
	FeasibilityImprovement float64         `json:"feasibility_improvement"` // 0-100
	CulturalImpact         string          `json:"cultural_impact"`         // Minimal, Moderate, Significant
}

// EstimateRequiredExtension returns the months of extension the gap
// actually needs: the timeframe gap when the analyzer found one, otherwise
// derived from the amount gap and monthly capacity. Delay-sensitive goals
// are capped at the cultural fraction of their original timeframe, which
// overrides the general minimum.
func (s *TimeframeStrategy) EstimateRequiredExtension(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) float64 {
	cfg := s.config(profile)

	extension := float64(gap.TimeframeGapMonths)
	if extension == 0 && gap.GapAmount.IsPositive() {
		capacity := profile.SavingsCapacityMonthly()
		if capacity.IsPositive() {
			extension = math.Ceil(gap.GapAmount.Div(capacity).InexactFloat64())
		} else {
			extension = float64(gap.TimeframeMonths)
		}
	}
	if min := cfg.V("remediation.timeframe.min_extension_months"); extension < min {
		extension = min
	}

	if IsDelaySensitive(goal) {
		cap := cfg.V("remediation.timeframe.cultural_cap_fraction") * float64(goal.RemainingMonths(s.now()))
		if extension > cap {
			extension = cap
		}
	}
	return extension
}

// AnalyzeTimeframeImpact quantifies an extension: the new target date, the
// drop in required monthly contribution, the compounded inflation cost of
// arriving later, and the cultural read on the delay.
func (s *TimeframeStrategy) AnalyzeTimeframeImpact(goal *domain.Goal, gap *domain.GapResult, extensionMonths float64, profile *domain.Profile) *TimeframeImpact {
	cfg := s.config(profile)
	now := s.now()

	months := gap.TimeframeMonths
	if months <= 0 {
		months = goal.RemainingMonths(now)
	}
	wholeExtension := int(math.Round(extensionMonths))
	newDate := dateutil.AddMonths(goal.Deadline(now), wholeExtension)

	rate := decimal.NewFromFloat(cfg.V("returns.assumed_annual"))
	oldRequired := finmath.RequiredMonthlyContribution(gap.TargetAmount, gap.CurrentAmount, months, rate)
	newRequired := finmath.RequiredMonthlyContribution(gap.TargetAmount, gap.CurrentAmount, months+wholeExtension, rate)
	reduction := oldRequired.Sub(newRequired)
	if reduction.IsNegative() {
		reduction = decimal.Zero
	}

	inflation := cfg.V("inflation.general")
	yearsExtended := extensionMonths / 12
	delayFactor := math.Pow(1+inflation, yearsExtended) - 1
	inflationCost := gap.TargetAmount.Mul(decimal.NewFromFloat(delayFactor)).Round(0)

	improvement := 0.0
	if oldRequired.IsPositive() {
		improvement = reduction.Div(oldRequired).InexactFloat64() * 100
	}

	return &TimeframeImpact{
		ExtensionMonths:        extensionMonths,
		NewTargetDate:          newDate,
		OldRequiredMonthly:     oldRequired.Round(0),
		NewRequiredMonthly:     newRequired.Round(0),
		ContributionReduction:  reduction.Round(0),
		InflationCostOfDelay:   inflationCost,
		FeasibilityImprovement: improvement,
		CulturalImpact:         s.culturalImpact(goal, extensionMonths),
	}
}

// culturalImpact tiers the delay for sensitive goals by extension length.
func (s *TimeframeStrategy) culturalImpact(goal *domain.Goal, extensionMonths float64) string {
	if !IsDelaySensitive(goal) {
		return "Minimal"
	}
	switch {
	case extensionMonths <= 3:
		return "Minimal"
	case extensionMonths <= 6:
		return "Moderate"
	default:
		return "Significant"
	}
}

// OptimalExtension picks the extension to actually recommend: the larger of
// the required minimum and the target fraction of the original timeframe,
// capped at the maximum fraction (with its own floor) and always by the
// cultural cap for delay-sensitive goals.
func (s *TimeframeStrategy) OptimalExtension(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) float64 {
	cfg := s.config(profile)
	original := float64(goal.RemainingMonths(s.now()))

	required := s.EstimateRequiredExtension(goal, gap, profile)
	target := cfg.V("remediation.timeframe.target_fraction") * original
	extension := math.Max(required, target)

	maxExtension := math.Max(cfg.V("remediation.timeframe.max_fraction")*original, cfg.V("remediation.timeframe.max_floor_months"))
	if extension > maxExtension {
		extension = maxExtension
	}
	if IsDelaySensitive(goal) {
		if cap := cfg.V("remediation.timeframe.cultural_cap_fraction") * original; extension > cap {
			extension = cap
		}
	}
	return extension
}

// BuildOption wraps the optimal extension into a remediation option.
func (s *TimeframeStrategy) BuildOption(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) *domain.RemediationOption {
	extension := s.OptimalExtension(goal, gap, profile)
	impact := s.AnalyzeTimeframeImpact(goal, gap, extension, profile)

	// More breathing room scores as more feasible, discounted for
	// delay-sensitive goals.
	feasibility := clamp(50+impact.FeasibilityImprovement, 0, 95)
	if IsDelaySensitive(goal) {
		feasibility *= 0.8
	}

	gapReduction := clamp(impact.FeasibilityImprovement, 0, 100)
	return &domain.RemediationOption{
		Description:      "Extend Timeframe",
		FeasibilityScore: feasibility,
		ImpactMetrics: map[string]float64{
			domain.MetricTimeframeExtension:   extension,
			domain.MetricGapReductionPct:      gapReduction,
			domain.MetricInflationCostOfDelay: impact.InflationCostOfDelay.InexactFloat64(),
		},
		ImplementationSteps: []domain.ImplementationStep{
			{Action: "Move the target date", Note: fmt.Sprintf("new date %s", impact.NewTargetDate.Format("Jan 2006"))},
			{Action: "Rework the monthly SIP", Note: fmt.Sprintf("required contribution drops to ₹%s", impact.NewRequiredMonthly)},
			{Action: "Review inflation cost", Note: fmt.Sprintf("delay adds about ₹%s to the real cost", impact.InflationCostOfDelay)},
		},
	}
}
