package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// EmergencyFundCalculator sizes an emergency fund as a configured number of
// months of expenses. With health set it sizes a health-contingency buffer
// instead, adding the medical cover gap from metadata.
type EmergencyFundCalculator struct {
	base
	health bool
}

func (c *EmergencyFundCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	months := c.param("emergency_fund.months_of_expenses", 6, profile)
	expenses := profile.ExpensesMonthly()
	if expenses.IsZero() {
		// No financial data at all: fall back to the goal's own target.
		return goal.TargetAmount
	}
	amount := expenses.Mul(decimal.NewFromFloat(months))
	if c.health {
		coverGap := domain.NumberField(goal.Metadata, "cover_gap", decimal.Zero)
		amount = amount.Add(coverGap)
	}
	return amount.Round(0)
}

func (c *EmergencyFundCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

func (c *EmergencyFundCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	months := c.timeAvailable(goal)
	// An emergency fund should exist within a year regardless of what the
	// goal record says.
	if months > 12 {
		return 12
	}
	return months
}

func (c *EmergencyFundCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	// Liquidity dominates: no equity for the safety buffer.
	return domain.Allocation{Debt: 0.40, Cash: 0.60}.Normalize()
}

func (c *EmergencyFundCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := c.priorityScore(goal, profile)
	// The safety net outranks everything while underfunded.
	if goal.CurrentAmount.LessThan(c.AmountNeeded(goal, profile)) && score < 90 {
		score = 90
	}
	return score
}
