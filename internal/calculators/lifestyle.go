package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// LifestyleCalculator covers travel, vehicle and general discretionary
// goals: the cost comes from metadata or the goal target, inflated to the
// purchase date.
type LifestyleCalculator struct {
	base
	kind domain.Category
}

func (c *LifestyleCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	cost := domain.NumberField(goal.Metadata, "estimated_cost", goal.TargetAmount)
	if !cost.IsPositive() {
		// No figure anywhere: anchor on a month of income so the result
		// stays structurally valid.
		cost = profile.IncomeMonthly()
	}
	inflation := c.param("inflation.general", 0.06, profile)
	if c.kind == domain.CategoryVehicle {
		// Vehicle prices have outrun general inflation for years.
		inflation += 0.01
	}
	return inflate(cost, inflation, c.TimeAvailable(goal, profile)).Round(0)
}

func (c *LifestyleCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

func (c *LifestyleCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	return c.timeAvailable(goal)
}

func (c *LifestyleCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	return c.allocationFor(c.TimeAvailable(goal, profile), profile)
}

func (c *LifestyleCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := c.priorityScore(goal, profile)
	// Discretionary goals yield to everything else at equal importance.
	score -= 10
	if score < 0 {
		score = 0
	}
	return score
}
