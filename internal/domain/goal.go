package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/pkg/dateutil"
)

// Category tags a goal with its planning category. The engine treats
// unrecognized categories as CategoryCustom.
type Category string

const (
	CategoryEmergencyFund    Category = "emergency_fund"
	CategoryRetirement       Category = "retirement"
	CategoryEarlyRetirement  Category = "early_retirement"
	CategoryEducation        Category = "education"
	CategoryHomePurchase     Category = "home_purchase"
	CategoryDebtRepayment    Category = "debt_repayment"
	CategoryWedding          Category = "wedding"
	CategoryTravel           Category = "travel"
	CategoryVehicle          Category = "vehicle"
	CategoryDiscretionary    Category = "discretionary"
	CategoryLegacyPlanning   Category = "legacy_planning"
	CategoryCharitableGiving Category = "charitable_giving"
	CategoryTaxOptimization  Category = "tax_optimization"
	CategoryHealthInsurance  Category = "health_insurance"
	CategoryCustom           Category = "custom"
)

// IsCritical reports whether the category is protected: such goals never
// have their targets cut below the configured minimum and are pinned to the
// top of any reprioritization.
func (c Category) IsCritical() bool {
	switch c {
	case CategoryEmergencyFund, CategoryHealthInsurance, CategoryEducation:
		return true
	}
	return false
}

// IsCulturallySensitive reports whether the category carries low tolerance
// for delay in the Indian context (weddings and education have externally
// fixed dates far more often than, say, a vehicle upgrade).
func (c Category) IsCulturallySensitive() bool {
	switch c {
	case CategoryWedding, CategoryEducation:
		return true
	}
	return false
}

// Importance is the user's stated priority for a goal.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Flexibility describes how negotiable a goal's target and date are.
type Flexibility string

const (
	FlexibilityFixed    Flexibility = "fixed"
	FlexibilitySomewhat Flexibility = "somewhat_flexible"
	FlexibilityVery     Flexibility = "very_flexible"
)

// DefaultTimeframeMonths is assumed when a goal has neither a target date
// nor an explicit timeframe.
const DefaultTimeframeMonths = 36

// Goal is a single financial goal as entered in the planning UI. The engine
// reads goals and never mutates them.
type Goal struct {
	ID                  string          `yaml:"id" json:"id"`
	Title               string          `yaml:"title" json:"title"`
	Category            Category        `yaml:"category" json:"category"`
	TargetAmount        decimal.Decimal `yaml:"target_amount" json:"target_amount"`
	CurrentAmount       decimal.Decimal `yaml:"current_amount" json:"current_amount"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution"`
	TargetDate          time.Time       `yaml:"target_date,omitempty" json:"target_date,omitempty"`
	TimeframeMonths     int             `yaml:"timeframe_months,omitempty" json:"timeframe_months,omitempty"`
	Importance          Importance      `yaml:"importance" json:"importance"`
	Flexibility         Flexibility     `yaml:"flexibility" json:"flexibility"`
	Notes               string          `yaml:"notes,omitempty" json:"notes,omitempty"`

	// Metadata carries category-specific fields (education type, wedding
	// guest count, property cost...) without widening the Goal struct.
	Metadata map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// RemainingMonths returns the months available to fund the goal as of now.
// An explicit timeframe wins over a target date; with neither the engine
// assumes DefaultTimeframeMonths.
func (g *Goal) RemainingMonths(now time.Time) int {
	if g.TimeframeMonths > 0 {
		return g.TimeframeMonths
	}
	if !g.TargetDate.IsZero() {
		if months := dateutil.MonthsBetween(now, g.TargetDate); months > 0 {
			return months
		}
		// Past-due goals still get a minimal horizon rather than zero.
		return 1
	}
	return DefaultTimeframeMonths
}

// Deadline returns the goal's effective target date.
func (g *Goal) Deadline(now time.Time) time.Time {
	if !g.TargetDate.IsZero() {
		return g.TargetDate
	}
	return dateutil.AddMonths(now, g.RemainingMonths(now))
}
