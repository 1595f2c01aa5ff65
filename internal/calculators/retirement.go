package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// RetirementCalculator sizes a retirement corpus from projected expenses at
// retirement and a safe withdrawal rate. With early set it targets the
// configured early-retirement age and sizes the corpus as a multiple of
// annual expenses instead, since the withdrawal horizon is much longer.
type RetirementCalculator struct {
	base
	early bool
}

func (c *RetirementCalculator) retirementAge(profile *domain.Profile) int {
	if c.early {
		return int(c.param("early_retirement.age", 45, profile))
	}
	return int(c.param("retirement.age", 60, profile))
}

func (c *RetirementCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	months := c.TimeAvailable(goal, profile)
	inflation := c.param("inflation.general", 0.06, profile)
	expenseRatio := c.param("retirement.expense_ratio", 0.70, profile)

	annualExpensesNow := profile.ExpensesMonthly().Mul(decimal.NewFromInt(12))
	if annualExpensesNow.IsZero() {
		return goal.TargetAmount
	}
	annualAtRetirement := inflate(annualExpensesNow, inflation, months).
		Mul(decimal.NewFromFloat(expenseRatio))

	if c.early {
		multiple := c.param("early_retirement.corpus_multiple", 30, profile)
		return annualAtRetirement.Mul(decimal.NewFromFloat(multiple)).Round(0)
	}
	swr := c.param("retirement.safe_withdrawal_rate", 0.04, profile)
	if swr <= 0 {
		swr = 0.04
	}
	return annualAtRetirement.Div(decimal.NewFromFloat(swr)).Round(0)
}

func (c *RetirementCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

// TimeAvailable runs to the retirement age, not the goal's stated date; an
// explicit goal timeframe still wins when the user set one.
func (c *RetirementCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	if goal.TimeframeMonths > 0 || !goal.TargetDate.IsZero() {
		return c.timeAvailable(goal)
	}
	years := c.retirementAge(profile) - profile.AgeYears(c.now())
	if years <= 0 {
		return 12
	}
	return years * 12
}

func (c *RetirementCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	return c.allocationFor(c.TimeAvailable(goal, profile), profile)
}

func (c *RetirementCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := c.priorityScore(goal, profile)
	// Retirement gains urgency as the horizon shrinks below a decade.
	if c.TimeAvailable(goal, profile) <= 120 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
