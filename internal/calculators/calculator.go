// Package calculators provides the per-category goal amount calculators and
// the factory that resolves a goal category to its calculator.
package calculators

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/params"
)

// ErrUnknownCategory is returned when a goal category cannot be resolved to
// any calculator, the generic fallback included. This is the one error kind
// callers are expected to handle; everything else degrades to defaults.
var ErrUnknownCategory = errors.New("no amount calculator for category")

// AmountCalculator computes the financial shape of one goal category.
type AmountCalculator interface {
	// AmountNeeded returns the target amount in rupees.
	AmountNeeded(goal *domain.Goal, profile *domain.Profile) decimal.Decimal
	// MonthlyContribution estimates the level monthly saving needed to
	// reach the target in the time available.
	MonthlyContribution(goal *domain.Goal, profile *domain.Profile) decimal.Decimal
	// TimeAvailable returns the funding horizon in months.
	TimeAvailable(goal *domain.Goal, profile *domain.Profile) int
	// RecommendedAllocation returns an asset allocation summing to 1.0.
	RecommendedAllocation(goal *domain.Goal, profile *domain.Profile) domain.Allocation
	// PriorityScore rates the goal 0-100 for cross-goal ranking.
	PriorityScore(goal *domain.Goal, profile *domain.Profile) float64
}

// Factory resolves goal categories to calculator instances. Unrecognized
// categories fall back to the custom calculator.
type Factory struct {
	registry map[domain.Category]AmountCalculator
	fallback AmountCalculator
}

// NewFactory builds a factory with every category calculator registered
// against the given parameter resolver. A nil logger discards output.
func NewFactory(resolver *params.Resolver, log *logrus.Logger) *Factory {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	base := newBase(resolver, log, time.Now)
	custom := &CustomCalculator{base: base}
	f := &Factory{
		registry: map[domain.Category]AmountCalculator{
			domain.CategoryEmergencyFund:    &EmergencyFundCalculator{base: base},
			domain.CategoryRetirement:       &RetirementCalculator{base: base},
			domain.CategoryEarlyRetirement:  &RetirementCalculator{base: base, early: true},
			domain.CategoryEducation:        &EducationCalculator{base: base},
			domain.CategoryHomePurchase:     &HomePurchaseCalculator{base: base},
			domain.CategoryDebtRepayment:    &DebtRepaymentCalculator{base: base},
			domain.CategoryWedding:          &WeddingCalculator{base: base},
			domain.CategoryTravel:           &LifestyleCalculator{base: base, kind: domain.CategoryTravel},
			domain.CategoryVehicle:          &LifestyleCalculator{base: base, kind: domain.CategoryVehicle},
			domain.CategoryDiscretionary:    &LifestyleCalculator{base: base, kind: domain.CategoryDiscretionary},
			domain.CategoryLegacyPlanning:   &GivingCalculator{base: base, kind: domain.CategoryLegacyPlanning},
			domain.CategoryCharitableGiving: &GivingCalculator{base: base, kind: domain.CategoryCharitableGiving},
			domain.CategoryTaxOptimization:  &TaxOptimizationCalculator{base: base},
			domain.CategoryHealthInsurance:  &EmergencyFundCalculator{base: base, health: true},
			domain.CategoryCustom:           custom,
		},
		fallback: custom,
	}
	return f
}

// ForCategory resolves a calculator for the category, defaulting to the
// custom calculator for anything unrecognized. It returns ErrUnknownCategory
// only when the factory has no fallback either, which indicates a
// programming error rather than bad input.
func (f *Factory) ForCategory(cat domain.Category) (AmountCalculator, error) {
	if f == nil {
		return nil, fmt.Errorf("%w %q: factory not initialized", ErrUnknownCategory, cat)
	}
	if calc, ok := f.registry[cat]; ok {
		return calc, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownCategory, cat)
}
