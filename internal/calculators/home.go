package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// HomePurchaseCalculator targets the down payment on a property: the
// property cost from metadata (or an income-derived estimate) times the
// configured down-payment percentage, inflated to the purchase date.
type HomePurchaseCalculator struct {
	base
}

func (c *HomePurchaseCalculator) AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	propertyCost := domain.NumberField(goal.Metadata, "property_cost", decimal.Zero)
	if !propertyCost.IsPositive() {
		// Affordability convention: roughly five years of gross income.
		annualIncome := profile.IncomeMonthly().Mul(decimal.NewFromInt(12))
		if annualIncome.IsZero() {
			return goal.TargetAmount
		}
		propertyCost = annualIncome.Mul(decimal.NewFromInt(5))
	}
	downPct := c.param("home.down_payment_percent", 0.20, profile)
	inflation := c.param("inflation.general", 0.06, profile)
	cost := inflate(propertyCost, inflation, c.TimeAvailable(goal, profile))
	return cost.Mul(decimal.NewFromFloat(downPct)).Round(0)
}

func (c *HomePurchaseCalculator) MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal {
	target := c.AmountNeeded(goal, profile)
	return c.monthlyFor(target, goal.CurrentAmount, c.TimeAvailable(goal, profile), profile)
}

func (c *HomePurchaseCalculator) TimeAvailable(goal *domain.Goal, profile *domain.Profile) int {
	return c.timeAvailable(goal)
}

func (c *HomePurchaseCalculator) RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation {
	return c.allocationFor(c.TimeAvailable(goal, profile), profile)
}

func (c *HomePurchaseCalculator) PriorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	return c.priorityScore(goal, profile)
}
