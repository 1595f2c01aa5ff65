package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// TaxOptimizationCalculator targets the unused headroom across the common
// deduction sections (80C, 80D, NPS) for the current financial year.
type TaxOptimizationCalculator struct {
	base
}

func (c *TaxOptimizationCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	limit80C := decimal.NewFromFloat(c.param("tax.sections.80c.limit", 150000, profile))
	limit80D := decimal.NewFromFloat(c.param("tax.sections.80d.limit", 25000, profile))
	limitNPS := decimal.NewFromFloat(c.param("tax.sections.nps.limit", 50000, profile))

	used80C := domain.NumberField(goal.Metadata, "used_80c", decimal.Zero)
	used80D := domain.NumberField(goal.Metadata, "used_80d", decimal.Zero)
	usedNPS := domain.NumberField(goal.Metadata, "used_nps", decimal.Zero)

	headroom := decimal.Zero
	for _, pair := range []struct{ limit, used decimal.Decimal }{
		{limit80C, used80C}, {limit80D, used80D}, {limitNPS, usedNPS},
	} {
		if room := pair.limit.Sub(pair.used); room.IsPositive() {
			headroom = headroom.Add(room)
		}
	}
	return headroom.Round(0)
}

func (c *TaxOptimizationCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	months := c.TimeAvailable(goal, profile)
	remaining := target.Sub(goal.CurrentAmount)
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(months))).Round(0)
}

// TimeAvailable is the months left in the financial year (April to March).
func (c *TaxOptimizationCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	now := c.now()
	month := int(now.Month())
	var left int
	if month >= 4 {
		left = 15 - month // through March 31 next year
	} else {
		left = 3 - month
	}
	if left <= 0 {
		left = 1
	}
	return left
}

func (c *TaxOptimizationCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	// ELSS-heavy: the equity-linked route is the usual 80C filler for
	// anyone with a multi-year lock-in appetite.
	return domain.Allocation{Equity: 0.60, Debt: 0.35, Cash: 0.05}.Normalize()
}

func (c *TaxOptimizationCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := c.priorityScore(goal, profile)
	// Deadline pressure: headroom expires with the financial year.
	if c.TimeAvailable(goal, profile) <= 3 {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}
