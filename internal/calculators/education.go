package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// EducationCalculator sizes an education corpus from the education type in
// the goal metadata, compounded at education inflation over the horizon.
type EducationCalculator struct {
	base
}

func (c *EducationCalculator) baseCost(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	if cost := domain.NumberField(goal.Metadata, "estimated_cost", decimal.Zero); cost.IsPositive() {
		return cost
	}
	eduType := domain.StringField(goal.Metadata, "education_type", "undergraduate")
	switch eduType {
	case "school":
		return decimal.NewFromFloat(c.param("education.base_cost.school", 800000, profile))
	case "postgraduate":
		return decimal.NewFromFloat(c.param("education.base_cost.postgraduate", 2000000, profile))
	case "abroad":
		return decimal.NewFromFloat(c.param("education.base_cost.abroad", 5000000, profile))
	default:
		return decimal.NewFromFloat(c.param("education.base_cost.undergraduate", 1200000, profile))
	}
}

func (c *EducationCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	inflation := c.param("inflation.education", 0.08, profile)
	return inflate(c.baseCost(goal, profile), inflation, c.TimeAvailable(goal, profile)).Round(0)
}

func (c *EducationCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

func (c *EducationCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	return c.timeAvailable(goal)
}

func (c *EducationCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	return c.allocationFor(c.TimeAvailable(goal, profile), profile)
}

func (c *EducationCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	// Education is a protected category; the base formula already adds the
	// critical-category bump.
	return c.priorityScore(goal, profile)
}
