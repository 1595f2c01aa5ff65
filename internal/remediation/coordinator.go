package remediation

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/calculators"
	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/finmath"
	"github.com/niveshlabs/goalplan/internal/impact"
	"github.com/niveshlabs/goalplan/internal/params"
)

// Coordinator runs every remediation strategy against a struggling goal and
// returns the full option set, ranked best first.
type Coordinator struct {
	resolver     *params.Resolver
	log          *logrus.Logger
	now          func() time.Time
	timeframe    *TimeframeStrategy
	allocation   *AllocationStrategy
	contribution *ContributionStrategy
	target       *TargetStrategy
	priority     *PriorityStrategy
}

// NewCoordinator wires all five strategies against shared dependencies.
func NewCoordinator(resolver *params.Resolver, factory *calculators.Factory, log *logrus.Logger) *Coordinator {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Coordinator{
		resolver:     resolver,
		log:          log,
		now:          time.Now,
		timeframe:    NewTimeframeStrategy(resolver, log),
		allocation:   NewAllocationStrategy(resolver, factory, log),
		contribution: NewContributionStrategy(resolver, log),
		target:       NewTargetStrategy(resolver, log),
		priority:     NewPriorityStrategy(resolver, factory, log),
	}
}

// RemediationPlan is the coordinator's output for one goal.
type RemediationPlan struct {
	GoalID      string                      `json:"goal_id"`
	GoalTitle   string                      `json:"goal_title"`
	Severity    domain.Severity             `json:"severity"`
	Options     []*domain.RemediationOption `json:"options"`
	Recommended string                      `json:"recommended"`
}

// GenerateOptions runs all five single-lever strategies plus the
// cross-cutting hybrid and lump-sum options and ranks the lot. A strategy
// that cannot produce an option for this goal is skipped, not fatal.
func (c *Coordinator) GenerateOptions(goal *domain.Goal, gap *domain.GapResult, allGoals []*domain.Goal, gaps map[string]*domain.GapResult, profile *domain.Profile) (*RemediationPlan, error) {
	var options []*domain.RemediationOption

	if opt := c.timeframe.BuildOption(goal, gap, profile); opt != nil {
		options = append(options, opt)
	}
	if opt, err := c.allocation.BuildOption(goal, gap, profile); err != nil {
		c.log.WithError(err).WithField("goal", goal.ID).Debug("allocation strategy skipped")
	} else if opt != nil {
		options = append(options, opt)
	}
	if opt := c.contribution.BuildOption(goal, gap, profile); opt != nil {
		options = append(options, opt)
	}
	if opt := c.target.BuildOption(goal, gap, profile); opt != nil {
		options = append(options, opt)
	}
	if len(allGoals) > 1 {
		if opt := c.priority.BuildOption(goal, gap, allGoals, gaps, profile); opt != nil {
			options = append(options, opt)
		}
	}
	if opt := c.hybridOption(goal, gap, profile); opt != nil {
		options = append(options, opt)
	}
	if opt := c.lumpSumOption(goal, gap, profile); opt != nil {
		options = append(options, opt)
	}

	ranked := impact.RankOptions(options, goal, gap, profile)
	plan := &RemediationPlan{
		GoalID:    goal.ID,
		GoalTitle: goal.Title,
		Severity:  gap.Severity,
		Options:   ranked,
	}
	if len(ranked) > 0 {
		plan.Recommended = ranked[0].Description
	}
	return plan, nil
}

// hybridOption combines a half-measure extension with a half-measure
// contribution bump. Splitting the pain across two levers is usually easier
// to live with than maxing out either one.
func (c *Coordinator) hybridOption(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) *domain.RemediationOption {
	if !gap.GapAmount.IsPositive() {
		return nil
	}
	cfg := loadConfig(c.resolver, profile, map[string]float64{
		"returns.assumed_annual": 0.08,
	})
	extension := c.timeframe.OptimalExtension(goal, gap, profile) / 2
	if extension < 1 {
		extension = 1
	}
	newMonths := gap.TimeframeMonths + int(math.Round(extension))
	rate := decimal.NewFromFloat(cfg.V("returns.assumed_annual"))

	required := finmath.RequiredMonthlyContribution(gap.TargetAmount, gap.CurrentAmount, newMonths, rate)
	additional := required.Sub(gap.AvailableMonthly)
	if additional.IsNegative() {
		additional = decimal.Zero
	}

	afford := c.contribution.AnalyzeAffordability(additional, gap.AvailableMonthly, profile)
	feasibility := clamp(55+afford.FeasibilityScore*35, 0, 100)

	projected := finmath.FutureValue(gap.CurrentAmount, gap.AvailableMonthly.Add(additional), newMonths, rate)
	gapReduction := 0.0
	if gap.GapAmount.IsPositive() {
		closed := projected.Sub(gap.TargetAmount.Sub(gap.GapAmount))
		gapReduction = clamp(closed.Div(gap.GapAmount).InexactFloat64()*100, 0, 100)
	}

	return &domain.RemediationOption{
		Description:      "Extend Timeframe and Increase Saving",
		FeasibilityScore: feasibility,
		ImpactMetrics: map[string]float64{
			domain.MetricGapReductionPct:    gapReduction,
			domain.MetricTimeframeExtension: extension,
			domain.MetricMonthlyAdjustment:  additional.InexactFloat64(),
		},
		ImplementationSteps: []domain.ImplementationStep{
			{Action: fmt.Sprintf("Push the target date out by about %.0f months", extension)},
			{Action: fmt.Sprintf("Raise the monthly contribution by ₹%s", additional.Round(0))},
			{Action: "Set a calendar reminder to confirm both changes took effect next quarter"},
		},
	}
}

// lumpSumOption models routing a one-time inflow, such as an annual bonus
// or maturing FD, into the goal. Sized at one month of income or thirty
// percent of the gap, whichever is smaller.
func (c *Coordinator) lumpSumOption(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) *domain.RemediationOption {
	if !gap.GapAmount.IsPositive() {
		return nil
	}
	income := profile.IncomeMonthly()
	if !income.IsPositive() {
		return nil
	}
	ceiling := gap.GapAmount.Mul(decimal.NewFromFloat(0.30))
	lump := decimal.Min(income, ceiling)
	if !lump.IsPositive() {
		return nil
	}

	cfg := loadConfig(c.resolver, profile, map[string]float64{
		"returns.assumed_annual": 0.08,
	})
	rate := decimal.NewFromFloat(cfg.V("returns.assumed_annual"))
	grown := lump.Mul(finmath.CompoundFactor(finmath.MonthlyRate(rate), gap.TimeframeMonths))
	gapReduction := clamp(grown.Div(gap.GapAmount).InexactFloat64()*100, 0, 100)

	return &domain.RemediationOption{
		Description:      "Apply a One-Time Lump Sum",
		FeasibilityScore: 60,
		ImpactMetrics: map[string]float64{
			domain.MetricGapReductionPct:   gapReduction,
			domain.MetricMonthlyAdjustment: 0,
		},
		ImplementationSteps: []domain.ImplementationStep{
			{Action: fmt.Sprintf("Earmark ₹%s from the next bonus or windfall", lump.Round(0))},
			{Action: "Invest it as a lump sum into the goal's existing folio", Note: "Use an STP over 3 months if the amount goes into equity"},
		},
	}
}
