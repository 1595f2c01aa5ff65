package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// WeddingCalculator sizes a wedding budget from the guest count and
// ceremony scale in the goal metadata, compounded at wedding inflation.
type WeddingCalculator struct {
	base
}

func (c *WeddingCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	if cost := domain.NumberField(goal.Metadata, "estimated_cost", decimal.Zero); cost.IsPositive() {
		inflation := c.param("inflation.wedding", 0.07, profile)
		return inflate(cost, inflation, c.TimeAvailable(goal, profile)).Round(0)
	}

	baseCost := decimal.NewFromFloat(c.param("wedding.base_cost", 500000, profile))
	perGuest := decimal.NewFromFloat(c.param("wedding.cost_per_guest", 2500, profile))
	guests := domain.NumberField(goal.Metadata, "guest_count", decimal.NewFromInt(200))

	amount := baseCost.Add(perGuest.Mul(guests))
	switch domain.StringField(goal.Metadata, "ceremony_scale", "standard") {
	case "grand":
		amount = amount.Mul(decimal.NewFromFloat(1.5))
	case "intimate":
		amount = amount.Mul(decimal.NewFromFloat(0.6))
	}
	inflation := c.param("inflation.wedding", 0.07, profile)
	return inflate(amount, inflation, c.TimeAvailable(goal, profile)).Round(0)
}

func (c *WeddingCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

func (c *WeddingCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	return c.timeAvailable(goal)
}

func (c *WeddingCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	a := c.allocationFor(c.TimeAvailable(goal, profile), profile)
	// Indian weddings settle a meaningful share in gold regardless of
	// horizon.
	if a.Gold < 0.10 {
		a.Gold = 0.10
	}
	return a.Normalize()
}

func (c *WeddingCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := c.priorityScore(goal, profile)
	// Weddings carry a date that rarely moves once fixed.
	if c.TimeAvailable(goal, profile) <= 24 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}
