package remediation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/calculators"
	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/finmath"
	"github.com/niveshlabs/goalplan/internal/params"
)

// AllocationStrategy proposes shifting the goal's asset allocation toward
// equity to raise expected returns, within hard risk limits.
type AllocationStrategy struct {
	resolver *params.Resolver
	factory  *calculators.Factory
	log      *logrus.Logger
	now      func() time.Time
}

// NewAllocationStrategy creates the strategy.
func NewAllocationStrategy(resolver *params.Resolver, factory *calculators.Factory, log *logrus.Logger) *AllocationStrategy {
	return &AllocationStrategy{resolver: resolver, factory: factory, log: log, now: time.Now}
}

func (s *AllocationStrategy) config(profile *domain.Profile) strategyConfig {
	return loadConfig(s.resolver, profile, map[string]float64{
		"allocation.equity_max":              0.85,
		"allocation.debt_min":                0.05,
		"allocation.gold_min":                0.05,
		"allocation.cash_min":                0.02,
		"remediation.allocation.max_increment": 0.15,
		"returns.equity":                     0.12,
		"returns.debt":                       0.07,
		"returns.gold":                       0.08,
		"returns.cash":                       0.035,
		"returns.assumed_annual":             0.08,
	})
}

// IncreaseInvestmentRisk raises the equity share by riskIncrement (capped
// per call and at the absolute equity ceiling), pays for it proportionally
// from debt, gold and cash while respecting their floors, and renormalizes
// so the shares sum to exactly 1.
func (s *AllocationStrategy) IncreaseInvestmentRisk(alloc domain.Allocation, riskIncrement float64, profile *domain.Profile) domain.Allocation {
	cfg := s.config(profile)
	alloc = alloc.Normalize()

	increment := clamp(riskIncrement, 0, cfg.V("remediation.allocation.max_increment"))
	equityMax := cfg.V("allocation.equity_max")
	newEquity := math.Min(alloc.Equity+increment, equityMax)
	take := newEquity - alloc.Equity
	if take <= 0 {
		return alloc
	}

	floors := map[string]float64{
		"debt": cfg.V("allocation.debt_min"),
		"gold": cfg.V("allocation.gold_min"),
		"cash": cfg.V("allocation.cash_min"),
	}
	shares := map[string]float64{"debt": alloc.Debt, "gold": alloc.Gold, "cash": alloc.Cash}

	// Reduce each class proportionally to what it can give up above its
	// floor.
	available := 0.0
	for name, share := range shares {
		if room := share - floors[name]; room > 0 {
			available += room
		}
	}
	if available <= 0 {
		return alloc
	}
	if take > available {
		take = available
		newEquity = alloc.Equity + take
	}
	for name, share := range shares {
		room := share - floors[name]
		if room <= 0 {
			continue
		}
		shares[name] = share - take*(room/available)
	}

	out := domain.Allocation{
		Equity: newEquity,
		Debt:   shares["debt"],
		Gold:   shares["gold"],
		Cash:   shares["cash"],
	}
	return out.Normalize()
}

// TransitionStep is one month of the gradual move to the new allocation.
type TransitionStep struct {
	Month      int               `json:"month"`
	Allocation domain.Allocation `json:"allocation"`
}

// AllocationPlan is the full output of optimizing a goal's allocation.
type AllocationPlan struct {
	Current             domain.Allocation `json:"current"`
	Proposed            domain.Allocation `json:"proposed"`
	RiskIncrement       float64           `json:"risk_increment"`
	ReturnImprovement   float64           `json:"return_improvement"` // annual fraction
	RiskCompatibility   float64           `json:"risk_compatibility"` // 0-1
	TransitionPlan      []TransitionStep  `json:"transition_plan"`
	GapReductionPct     float64           `json:"gap_reduction_percentage"`
	IndiaRecommendations []string         `json:"india_recommendations"`
}

// severityIncrement maps gap severity to the base equity increment.
func severityIncrement(severity domain.Severity) float64 {
	switch severity {
	case domain.SeverityCritical:
		return 0.15
	case domain.SeveritySignificant:
		return 0.10
	case domain.SeverityModerate:
		return 0.05
	default:
		return 0.02
	}
}

// horizonMultiplier scales the increment by the funding horizon: short
// horizons cannot ride out equity drawdowns.
func horizonMultiplier(months int) float64 {
	switch {
	case months < 12:
		return 0.5
	case months <= 36:
		return 0.8
	case months <= 120:
		return 1.0
	default:
		return 1.2
	}
}

// OptimizeAllocationForGoal picks an equity increment from the gap severity
// and horizon, applies it, and reports the expected-return improvement,
// risk-tolerance fit, transition plan and the resulting gap reduction.
func (s *AllocationStrategy) OptimizeAllocationForGoal(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) (*AllocationPlan, error) {
	cfg := s.config(profile)

	calc, err := s.factory.ForCategory(goal.Category)
	if err != nil {
		return nil, err
	}
	current := calc.RecommendedAllocation(goal, profile)

	increment := severityIncrement(gap.Severity) * horizonMultiplier(gap.TimeframeMonths)
	proposed := s.IncreaseInvestmentRisk(current, increment, profile)

	improvement := s.expectedReturn(proposed, cfg) - s.expectedReturn(current, cfg)

	plan := &AllocationPlan{
		Current:              current,
		Proposed:             proposed,
		RiskIncrement:        proposed.Equity - current.Equity,
		ReturnImprovement:    improvement,
		RiskCompatibility:    riskCompatibility(proposed, profile),
		TransitionPlan:       transitionPlan(current, proposed),
		GapReductionPct:      s.gapReduction(gap, improvement, cfg),
		IndiaRecommendations: indiaRecommendations(proposed, goal),
	}
	return plan, nil
}

// expectedReturn is the allocation-weighted blend of per-class returns.
func (s *AllocationStrategy) expectedReturn(a domain.Allocation, cfg strategyConfig) float64 {
	return a.Equity*cfg.V("returns.equity") +
		a.Debt*cfg.V("returns.debt") +
		a.Gold*cfg.V("returns.gold") +
		a.Cash*cfg.V("returns.cash")
}

// idealAllocations per stated risk tolerance, for the compatibility score.
var idealAllocations = map[string]domain.Allocation{
	"conservative": {Equity: 0.25, Debt: 0.45, Gold: 0.15, Cash: 0.15},
	"moderate":     {Equity: 0.50, Debt: 0.30, Gold: 0.12, Cash: 0.08},
	"aggressive":   {Equity: 0.70, Debt: 0.18, Gold: 0.08, Cash: 0.04},
}

// riskCompatibility scores how close an allocation sits to the ideal for
// the user's risk tolerance: 1 minus half the L1 distance.
func riskCompatibility(a domain.Allocation, profile *domain.Profile) float64 {
	tolerance := "moderate"
	if profile != nil && profile.RiskTolerance != "" {
		tolerance = profile.RiskTolerance
	}
	ideal, ok := idealAllocations[tolerance]
	if !ok {
		ideal = idealAllocations["moderate"]
	}
	return clamp(1-a.L1Distance(ideal)/2, 0, 1)
}

// transitionPlan spreads the move over 3-12 months proportional to how far
// the allocation travels, stepping each class linearly.
func transitionPlan(current, proposed domain.Allocation) []TransitionStep {
	distance := current.L1Distance(proposed)
	months := int(clamp(math.Round(distance*30), 3, 12))

	steps := make([]TransitionStep, 0, months)
	for m := 1; m <= months; m++ {
		f := float64(m) / float64(months)
		steps = append(steps, TransitionStep{
			Month: m,
			Allocation: domain.Allocation{
				Equity: current.Equity + (proposed.Equity-current.Equity)*f,
				Debt:   current.Debt + (proposed.Debt-current.Debt)*f,
				Gold:   current.Gold + (proposed.Gold-current.Gold)*f,
				Cash:   current.Cash + (proposed.Cash-current.Cash)*f,
			}.Normalize(),
		})
	}
	return steps
}

// gapReduction projects the current amount forward at the improved return
// and reports how much of the gap the extra growth closes.
func (s *AllocationStrategy) gapReduction(gap *domain.GapResult, improvement float64, cfg strategyConfig) float64 {
	if !gap.GapAmount.IsPositive() || gap.TimeframeMonths <= 0 {
		return 0
	}
	baseRate := decimal.NewFromFloat(cfg.V("returns.assumed_annual"))
	newRate := baseRate.Add(decimal.NewFromFloat(improvement))

	pace := gap.AvailableMonthly
	baseline := finmath.FutureValue(gap.CurrentAmount, pace, gap.TimeframeMonths, baseRate)
	improved := finmath.FutureValue(gap.CurrentAmount, pace, gap.TimeframeMonths, newRate)

	extra := improved.Sub(baseline)
	if !extra.IsPositive() {
		return 0
	}
	return clamp(extra.Div(gap.GapAmount).InexactFloat64()*100, 0, 100)
}

// indiaRecommendations emits the product-level notes that accompany an
// allocation shift for Indian retail investors.
func indiaRecommendations(a domain.Allocation, goal *domain.Goal) []string {
	recs := []string{}
	if a.Gold > 0 {
		recs = append(recs, fmt.Sprintf(
			"Hold the %.0f%% gold share as roughly half SGB/digital gold, a quarter gold ETF, and keep physical gold only for ornament needs", a.Gold*100))
	}
	if a.Equity > 0 {
		recs = append(recs, fmt.Sprintf(
			"Split the %.0f%% equity share across an index fund core with a flexi-cap satellite", a.Equity*100))
		recs = append(recs, "Route up to ₹1.5L of the equity contribution through ELSS funds to use the 80C deduction (3-year lock-in)")
	}
	if goal.Category == domain.CategoryWedding && a.Gold < 0.10 {
		recs = append(recs, "Wedding goals usually carry a 10%+ gold share for ornament purchases; consider keeping it")
	}
	return recs
}

// BuildOption wraps the optimized allocation into a remediation option.
func (s *AllocationStrategy) BuildOption(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) (*domain.RemediationOption, error) {
	plan, err := s.OptimizeAllocationForGoal(goal, gap, profile)
	if err != nil {
		return nil, err
	}

	// Compatibility with the user's stated tolerance drives feasibility: a
	// shift the user cannot stomach will be unwound at the first drawdown.
	feasibility := clamp(plan.RiskCompatibility*100, 0, 100)

	steps := []domain.ImplementationStep{
		{Action: "Shift the asset allocation", Note: fmt.Sprintf("equity %.0f%% → %.0f%% over %d months",
			plan.Current.Equity*100, plan.Proposed.Equity*100, len(plan.TransitionPlan))},
	}
	for _, rec := range plan.IndiaRecommendations {
		steps = append(steps, domain.ImplementationStep{Action: rec})
	}

	return &domain.RemediationOption{
		Description:      "Adjust Asset Allocation",
		FeasibilityScore: feasibility,
		ImpactMetrics: map[string]float64{
			domain.MetricGapReductionPct:   plan.GapReductionPct,
			domain.MetricReturnImprovement: plan.ReturnImprovement,
			domain.MetricRiskIncrease:      plan.RiskIncrement,
		},
		ImplementationSteps: steps,
	}, nil
}
