package remediation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/finmath"
	"github.com/niveshlabs/goalplan/internal/params"
)

// ContributionStrategy proposes raising the monthly saving directed at a
// goal, with an affordability check, expense-reduction suggestions, a
// stepped ramp-up plan and the knock-on effect on other goals.
type ContributionStrategy struct {
	resolver *params.Resolver
	log      *logrus.Logger
	now      func() time.Time
}

// NewContributionStrategy creates the strategy.
func NewContributionStrategy(resolver *params.Resolver, log *logrus.Logger) *ContributionStrategy {
	return &ContributionStrategy{resolver: resolver, log: log, now: time.Now}
}

func (s *ContributionStrategy) config(profile *domain.Profile) strategyConfig {
	return loadConfig(s.resolver, profile, map[string]float64{
		"remediation.contribution.capacity_cap_ratio": 0.50,
		"remediation.contribution.step_interval_months": 4,
		"remediation.contribution.step_count":           4,
		"returns.assumed_annual":                        0.08,
	})
}

// Affordability is the result of checking an additional monthly amount
// against the household's disposable income.
type Affordability struct {
	AdditionalMonthly decimal.Decimal `json:"additional_monthly"`
	Disposable        decimal.Decimal `json:"disposable"`
	AvailableCapacity decimal.Decimal `json:"available_capacity"`
	FeasibilityScore  float64         `json:"feasibility_score"` // 0-1
}

// ContributionIncrease pairs the required extra monthly saving with its
// affordability analysis.
type ContributionIncrease struct {
	RequiredMonthly   decimal.Decimal `json:"required_monthly"`
	CurrentMonthly    decimal.Decimal `json:"current_monthly"`
	AdditionalMonthly decimal.Decimal `json:"additional_monthly"`
	Affordability     Affordability   `json:"affordability"`
}

// IncreaseMonthlySaving computes the annuity contribution needed to close
// the gap by the deadline, nets out what the goal already receives, and
// checks whether the increase is affordable.
func (s *ContributionStrategy) IncreaseMonthlySaving(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) *ContributionIncrease {
	cfg := s.config(profile)
	rate := decimal.NewFromFloat(cfg.V("returns.assumed_annual"))

	months := gap.TimeframeMonths
	if months <= 0 {
		months = goal.RemainingMonths(s.now())
	}
	required := finmath.RequiredMonthlyContribution(gap.TargetAmount, gap.CurrentAmount, months, rate)
	additional := required.Sub(goal.MonthlyContribution)
	if additional.IsNegative() {
		additional = decimal.Zero
	}

	return &ContributionIncrease{
		RequiredMonthly:   required.Round(0),
		CurrentMonthly:    goal.MonthlyContribution,
		AdditionalMonthly: additional.Round(0),
		Affordability:     s.AnalyzeAffordability(additional, goal.MonthlyContribution, profile),
	}
}

// AnalyzeAffordability scores an additional monthly amount against the
// capacity left after already-committed savings. Feasibility is a step
// function of available/additional.
func (s *ContributionStrategy) AnalyzeAffordability(additional, committed decimal.Decimal, profile *domain.Profile) Affordability {
	cfg := s.config(profile)

	disposable := profile.DisposableMonthly()
	capacity := disposable.Mul(decimal.NewFromFloat(cfg.V("remediation.contribution.capacity_cap_ratio"))).Sub(committed)
	if capacity.IsNegative() {
		capacity = decimal.Zero
	}

	score := 0.1
	if !additional.IsPositive() {
		score = 1.0
	} else if capacity.IsPositive() {
		ratio := capacity.Div(additional).InexactFloat64()
		switch {
		case ratio >= 2.0:
			score = 1.0
		case ratio >= 1.0:
			score = 0.8
		case ratio >= 0.5:
			score = 0.5
		case ratio > 0:
			score = 0.3
		}
	}

	return Affordability{
		AdditionalMonthly: additional.Round(0),
		Disposable:        disposable.Round(0),
		AvailableCapacity: capacity.Round(0),
		FeasibilityScore:  score,
	}
}

// ExpenseReduction is one suggested cut, largest reduction potential first.
type ExpenseReduction struct {
	Category         string          `json:"category"`
	Bucket           string          `json:"bucket"` // discretionary, lifestyle, essential
	MonthlyAmount    decimal.Decimal `json:"monthly_amount"`
	MaxReductionPct  float64         `json:"max_reduction_percentage"`
	MonthlyReduction decimal.Decimal `json:"monthly_reduction"`
	Selected         bool            `json:"selected"`
}

// expenseBuckets classifies expense categories by how cuttable they are.
var expenseBuckets = map[string]string{
	"dining_out": "discretionary", "entertainment": "discretionary",
	"subscriptions": "discretionary", "hobbies": "discretionary",
	"rent": "essential", "emi": "essential", "groceries": "essential",
	"utilities": "essential", "school_fees": "essential", "insurance": "essential",
	"medical": "essential", "transport": "essential",
	"shopping": "lifestyle", "travel": "lifestyle", "gym": "lifestyle",
	"domestic_help": "lifestyle", "personal_care": "lifestyle",
}

// bucketMaxReduction is the largest fraction of a category realistically
// cuttable per bucket.
var bucketMaxReduction = map[string]float64{
	"discretionary": 0.20,
	"essential":     0.05,
	"lifestyle":     0.15,
}

// SuggestExpenseReductions ranks expense categories by absolute reduction
// potential and greedily selects enough to cover the required amount. With
// no per-category breakdown in the profile, a conventional split of total
// expenses stands in.
func (s *ContributionStrategy) SuggestExpenseReductions(required decimal.Decimal, profile *domain.Profile) []ExpenseReduction {
	breakdown := profile.ExpenseBreakdown
	if len(breakdown) == 0 {
		total := profile.ExpensesMonthly().InexactFloat64()
		if total <= 0 {
			return nil
		}
		breakdown = map[string]float64{
			"rent":          total * 0.30,
			"groceries":     total * 0.20,
			"utilities":     total * 0.08,
			"transport":     total * 0.07,
			"dining_out":    total * 0.10,
			"entertainment": total * 0.05,
			"shopping":      total * 0.12,
			"domestic_help": total * 0.08,
		}
	}

	reductions := make([]ExpenseReduction, 0, len(breakdown))
	for category, amount := range breakdown {
		bucket, ok := expenseBuckets[category]
		if !ok {
			bucket = "lifestyle"
		}
		maxPct := bucketMaxReduction[bucket]
		monthly := decimal.NewFromFloat(amount)
		reductions = append(reductions, ExpenseReduction{
			Category:         category,
			Bucket:           bucket,
			MonthlyAmount:    monthly.Round(0),
			MaxReductionPct:  maxPct * 100,
			MonthlyReduction: monthly.Mul(decimal.NewFromFloat(maxPct)).Round(0),
		})
	}

	sort.Slice(reductions, func(i, j int) bool {
		if !reductions[i].MonthlyReduction.Equal(reductions[j].MonthlyReduction) {
			return reductions[i].MonthlyReduction.GreaterThan(reductions[j].MonthlyReduction)
		}
		return reductions[i].Category < reductions[j].Category
	})

	covered := decimal.Zero
	for i := range reductions {
		if covered.GreaterThanOrEqual(required) {
			break
		}
		reductions[i].Selected = true
		covered = covered.Add(reductions[i].MonthlyReduction)
	}
	return reductions
}

// ContributionStep is one rung of the stepped ramp-up plan.
type ContributionStep struct {
	Month   int             `json:"month"`
	Monthly decimal.Decimal `json:"monthly"`
}

// SteppedContributionPlan ramps linearly from the current to the target
// contribution over the configured number of steps.
func (s *ContributionStrategy) SteppedContributionPlan(current, target decimal.Decimal, profile *domain.Profile) []ContributionStep {
	cfg := s.config(profile)
	steps := cfg.Int("remediation.contribution.step_count")
	interval := cfg.Int("remediation.contribution.step_interval_months")
	if steps < 1 {
		steps = 1
	}
	if interval < 1 {
		interval = 1
	}
	if !target.GreaterThan(current) {
		return []ContributionStep{{Month: 0, Monthly: target.Round(0)}}
	}

	increment := target.Sub(current).Div(decimal.NewFromInt(int64(steps)))
	plan := make([]ContributionStep, 0, steps)
	for i := 1; i <= steps; i++ {
		plan = append(plan, ContributionStep{
			Month:   (i - 1) * interval,
			Monthly: current.Add(increment.Mul(decimal.NewFromInt(int64(i)))).Round(0),
		})
	}
	return plan
}

// GoalAdjustment records a contribution change forced onto another goal.
type GoalAdjustment struct {
	GoalID          string          `json:"goal_id"`
	OldContribution decimal.Decimal `json:"old_contribution"`
	NewContribution decimal.Decimal `json:"new_contribution"`
	Reason          string          `json:"reason"`
}

// categoryPriorityWeight ranks categories for deciding which goals yield
// capacity first; lower weights yield sooner.
var categoryPriorityWeight = map[domain.Category]float64{
	domain.CategoryEmergencyFund:    1.00,
	domain.CategoryHealthInsurance:  0.95,
	domain.CategoryEducation:        0.90,
	domain.CategoryDebtRepayment:    0.85,
	domain.CategoryRetirement:       0.80,
	domain.CategoryHomePurchase:     0.70,
	domain.CategoryWedding:          0.65,
	domain.CategoryEarlyRetirement:  0.60,
	domain.CategoryTaxOptimization:  0.55,
	domain.CategoryCustom:           0.50,
	domain.CategoryVehicle:          0.40,
	domain.CategoryTravel:           0.35,
	domain.CategoryDiscretionary:    0.30,
	domain.CategoryCharitableGiving: 0.25,
	domain.CategoryLegacyPlanning:   0.20,
}

// EstimateImpactOnOtherGoals checks whether adding extra contribution to
// one goal pushes the household over its capacity cap and, if so, trims the
// lowest-priority goals until the total fits again.
func (s *ContributionStrategy) EstimateImpactOnOtherGoals(target *domain.Goal, additional decimal.Decimal, allGoals []*domain.Goal, profile *domain.Profile) []GoalAdjustment {
	cfg := s.config(profile)
	cap := profile.DisposableMonthly().Mul(decimal.NewFromFloat(cfg.V("remediation.contribution.capacity_cap_ratio")))

	total := additional
	for _, g := range allGoals {
		total = total.Add(g.MonthlyContribution)
	}
	excess := total.Sub(cap)
	if !excess.IsPositive() {
		return nil
	}

	// Trim lowest-priority goals first; the goal being boosted is exempt.
	others := make([]*domain.Goal, 0, len(allGoals))
	for _, g := range allGoals {
		if g.ID != target.ID && g.MonthlyContribution.IsPositive() {
			others = append(others, g)
		}
	}
	sort.Slice(others, func(i, j int) bool {
		wi := categoryPriorityWeight[others[i].Category]
		wj := categoryPriorityWeight[others[j].Category]
		if wi != wj {
			return wi < wj
		}
		return others[i].ID < others[j].ID
	})

	var adjustments []GoalAdjustment
	for _, g := range others {
		if !excess.IsPositive() {
			break
		}
		cut := decimal.Min(g.MonthlyContribution, excess)
		adjustments = append(adjustments, GoalAdjustment{
			GoalID:          g.ID,
			OldContribution: g.MonthlyContribution,
			NewContribution: g.MonthlyContribution.Sub(cut).Round(0),
			Reason:          fmt.Sprintf("freed ₹%s/month for higher-priority goal %q", cut.Round(0), target.Title),
		})
		excess = excess.Sub(cut)
	}
	return adjustments
}

// BuildOption wraps the contribution increase into a remediation option.
func (s *ContributionStrategy) BuildOption(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) *domain.RemediationOption {
	increase := s.IncreaseMonthlySaving(goal, gap, profile)

	gapReduction := 100.0
	if increase.Affordability.FeasibilityScore < 0.5 {
		// An unaffordable increase only partially materializes.
		gapReduction = clamp(increase.Affordability.FeasibilityScore*200, 10, 100)
	}

	steps := []domain.ImplementationStep{
		{Action: "Raise the monthly SIP", Note: fmt.Sprintf("add ₹%s/month toward %q", increase.AdditionalMonthly, goal.Title)},
	}
	if increase.Affordability.FeasibilityScore < 0.8 {
		for _, r := range s.SuggestExpenseReductions(increase.AdditionalMonthly, profile) {
			if r.Selected {
				steps = append(steps, domain.ImplementationStep{
					Action: fmt.Sprintf("Cut %s spending", r.Category),
					Note:   fmt.Sprintf("up to ₹%s/month (%.0f%% of the category)", r.MonthlyReduction, r.MaxReductionPct),
				})
			}
		}
		ramp := s.SteppedContributionPlan(goal.MonthlyContribution, increase.RequiredMonthly, profile)
		if len(ramp) > 1 {
			steps = append(steps, domain.ImplementationStep{
				Action: "Step the contribution up gradually",
				Note:   fmt.Sprintf("%d increases, one every %d months", len(ramp), s.config(profile).Int("remediation.contribution.step_interval_months")),
			})
		}
	}

	return &domain.RemediationOption{
		Description:      "Increase Monthly Contribution",
		FeasibilityScore: increase.Affordability.FeasibilityScore * 100,
		ImpactMetrics: map[string]float64{
			domain.MetricGapReductionPct:   gapReduction,
			domain.MetricMonthlyAdjustment: increase.AdditionalMonthly.InexactFloat64(),
		},
		ImplementationSteps: steps,
	}
}
