package calculators

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/finmath"
	"github.com/niveshlabs/goalplan/internal/params"
)

// base carries the dependencies and shared arithmetic every category
// calculator needs.
type base struct {
	params *params.Resolver
	log    *logrus.Logger
	now    func() time.Time
}

func newBase(resolver *params.Resolver, log *logrus.Logger, now func() time.Time) base {
	if now == nil {
		now = time.Now
	}
	return base{params: resolver, log: log, now: now}
}

func (b base) param(path string, def float64, profile *domain.Profile) float64 {
	userID := ""
	if profile != nil {
		userID = profile.UserID
	}
	return b.params.Get(path, def, userID)
}

// timeAvailable is the default horizon: whatever the goal itself says.
func (b base) timeAvailable(goal *domain.Goal) int {
	return goal.RemainingMonths(b.now())
}

// monthlyFor computes the annuity contribution for a target over a horizon
// at the assumed annual return.
func (b base) monthlyFor(target, current decimal.Decimal, months int, profile *domain.Profile) decimal.Decimal {
	rate := decimal.NewFromFloat(b.param("returns.assumed_annual", 0.08, profile))
	return finmath.RequiredMonthlyContribution(target, current, months, rate)
}

// allocationFor picks an allocation from the funding horizon and the user's
// risk tolerance: longer horizons and higher tolerance push equity up.
func (b base) allocationFor(months int, profile *domain.Profile) domain.Allocation {
	if profile != nil && len(profile.AssetAllocation) == 4 {
		// Explicit profile override wins.
		a := domain.Allocation{
			Equity: profile.AssetAllocation["equity"],
			Debt:   profile.AssetAllocation["debt"],
			Gold:   profile.AssetAllocation["gold"],
			Cash:   profile.AssetAllocation["cash"],
		}
		if a.Sum() > 0 {
			return a.Normalize()
		}
	}

	var a domain.Allocation
	switch {
	case months <= 12:
		a = domain.Allocation{Equity: 0.10, Debt: 0.50, Gold: 0.10, Cash: 0.30}
	case months <= 36:
		a = domain.Allocation{Equity: 0.35, Debt: 0.40, Gold: 0.15, Cash: 0.10}
	case months <= 84:
		a = domain.Allocation{Equity: 0.55, Debt: 0.30, Gold: 0.10, Cash: 0.05}
	default:
		a = domain.Allocation{Equity: 0.70, Debt: 0.20, Gold: 0.07, Cash: 0.03}
	}

	if profile != nil {
		switch profile.RiskTolerance {
		case "aggressive":
			a.Equity += 0.10
			a.Debt -= 0.10
		case "conservative":
			a.Equity -= 0.10
			a.Debt += 0.10
		}
	}
	if a.Equity < 0 {
		a.Equity = 0
	}
	if a.Debt < 0 {
		a.Debt = 0
	}
	return a.Normalize()
}

// priorityScore is the shared base priority formula: importance dominates,
// flexibility and critical-category membership adjust.
func (b base) priorityScore(goal *domain.Goal, profile *domain.Profile) float64 {
	score := 50.0
	switch goal.Importance {
	case domain.ImportanceHigh:
		score = 80
	case domain.ImportanceMedium:
		score = 60
	case domain.ImportanceLow:
		score = 40
	}
	switch goal.Flexibility {
	case domain.FlexibilityFixed:
		score += 10
	case domain.FlexibilitySomewhat:
		score += 5
	}
	if goal.Category.IsCritical() {
		score += 10
	}
	// Near-term goals edge out distant ones at equal importance.
	if b.timeAvailable(goal) <= 12 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// inflate compounds an amount at an annual rate over a horizon in months.
func inflate(amount decimal.Decimal, annualRate float64, months int) decimal.Decimal {
	years := months / 12
	if years <= 0 {
		return amount
	}
	return amount.Mul(finmath.CompoundFactor(decimal.NewFromFloat(annualRate), years))
}
