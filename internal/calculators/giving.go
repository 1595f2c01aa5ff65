package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// GivingCalculator covers legacy planning and charitable giving: the target
// is user-stated or derived from income, with legacy corpora additionally
// sized to sustain the intended bequest.
type GivingCalculator struct {
	base
	kind domain.Category
}

func (c *GivingCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	if goal.TargetAmount.IsPositive() {
		return goal.TargetAmount
	}
	annualIncome := profile.IncomeMonthly().Mul(decimal.NewFromInt(12))
	if annualIncome.IsZero() {
		return goal.TargetAmount
	}
	if c.kind == domain.CategoryLegacyPlanning {
		// A legacy corpus conventionally targets a few years of income.
		return annualIncome.Mul(decimal.NewFromInt(3)).Round(0)
	}
	// Charitable giving defaults to a tithe-like tenth of one year's income.
	return annualIncome.Mul(decimal.NewFromFloat(0.10)).Round(0)
}

func (c *GivingCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

func (c *GivingCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	return c.timeAvailable(goal)
}

func (c *GivingCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	return c.allocationFor(c.TimeAvailable(goal, profile), profile)
}

func (c *GivingCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := c.priorityScore(goal, profile)
	// Giving goals defer to funding needs of the household itself.
	score -= 15
	if score < 0 {
		score = 0
	}
	return score
}
