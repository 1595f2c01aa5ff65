package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// CustomCalculator is the generic fallback for user-defined and
// unrecognized categories: it trusts the goal's own numbers and fills in
// engine defaults for everything missing.
type CustomCalculator struct {
	base
}

func (c *CustomCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	if goal.TargetAmount.IsPositive() {
		return goal.TargetAmount
	}
	if cost := domain.NumberField(goal.Metadata, "estimated_cost", decimal.Zero); cost.IsPositive() {
		return cost
	}
	// Nothing to go on: six months of income keeps the result plausible.
	return profile.IncomeMonthly().Mul(decimal.NewFromInt(6)).Round(0)
}

func (c *CustomCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

func (c *CustomCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	return c.timeAvailable(goal)
}

func (c *CustomCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	return c.allocationFor(c.TimeAvailable(goal, profile), profile)
}

func (c *CustomCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	return c.priorityScore(goal, profile)
}
