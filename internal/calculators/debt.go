package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// DebtRepaymentCalculator targets the outstanding balance plus the interest
// that accrues over the payoff horizon.
type DebtRepaymentCalculator struct {
	base
}

func (c *DebtRepaymentCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	outstanding := domain.NumberField(goal.Metadata, "outstanding_amount", goal.TargetAmount)
	if !outstanding.IsPositive() {
		return goal.TargetAmount
	}
	rate := domain.NumberField(goal.Metadata, "interest_rate", decimal.NewFromFloat(0.11))
	// Simple interest over the average outstanding balance is close enough
	// for sizing the goal; exact amortization belongs to the lender.
	months := c.TimeAvailable(goal, profile)
	years := decimal.NewFromInt(int64(months)).Div(decimal.NewFromInt(12))
	avgInterest := outstanding.Mul(rate).Mul(years).Div(decimal.NewFromInt(2))
	return outstanding.Add(avgInterest).Round(0)
}

func (c *DebtRepaymentCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	// Debt repayment earns nothing while being paid down.
	months := c.TimeAvailable(goal, profile)
	remaining := target.Sub(goal.CurrentAmount)
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(months))).Round(0)
}

func (c *DebtRepaymentCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	return c.timeAvailable(goal)
}

func (c *DebtRepaymentCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	// Money earmarked for debt payoff stays liquid.
	return domain.Allocation{Debt: 0.30, Cash: 0.70}.Normalize()
}

func (c *DebtRepaymentCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := c.priorityScore(goal, profile)
	// High-interest debt outranks comparable savings goals.
	if rate := domain.NumberField(goal.Metadata, "interest_rate", decimal.Zero); rate.GreaterThan(decimal.NewFromFloat(0.12)) {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
