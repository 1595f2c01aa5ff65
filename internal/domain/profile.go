package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is an amount with an associated frequency. Profile figures arrive
// either in this shape or buried in the flat Answers list; both are
// supported.
type Money struct {
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	Frequency string          `yaml:"frequency,omitempty" json:"frequency,omitempty"` // monthly (default) or annual
}

// Monthly normalizes the amount to a monthly figure.
func (m *Money) Monthly() decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	if strings.EqualFold(m.Frequency, "annual") || strings.EqualFold(m.Frequency, "yearly") {
		return m.Amount.Div(decimal.NewFromInt(12))
	}
	return m.Amount
}

// Answer is a single question/answer pair from the onboarding flow. Older
// profiles carry all financial figures this way.
type Answer struct {
	QuestionID string `yaml:"question_id" json:"question_id"`
	Value      any    `yaml:"value" json:"value"`
}

// FamilyStructure captures the household shape used by the cultural and
// joint-family heuristics.
type FamilyStructure struct {
	JointFamily   bool `yaml:"joint_family" json:"joint_family"`
	Dependents    int  `yaml:"dependents" json:"dependents"`
	ParentSupport bool `yaml:"parent_support" json:"parent_support"`
}

// Profile is the user's financial profile. Read-only to the engine.
type Profile struct {
	UserID          string             `yaml:"user_id" json:"user_id"`
	Age             int                `yaml:"age,omitempty" json:"age,omitempty"`
	BirthDate       time.Time          `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	MonthlyIncome   *Money             `yaml:"monthly_income,omitempty" json:"monthly_income,omitempty"`
	MonthlyExpenses *Money             `yaml:"monthly_expenses,omitempty" json:"monthly_expenses,omitempty"`
	MonthlySavings  *Money             `yaml:"monthly_savings,omitempty" json:"monthly_savings,omitempty"`
	RiskTolerance   string             `yaml:"risk_tolerance,omitempty" json:"risk_tolerance,omitempty"` // conservative, moderate, aggressive
	Family          FamilyStructure    `yaml:"family" json:"family"`
	Answers         []Answer           `yaml:"answers,omitempty" json:"answers,omitempty"`
	AssetAllocation map[string]float64 `yaml:"asset_allocation,omitempty" json:"asset_allocation,omitempty"`

	// ExpenseBreakdown maps expense category names (rent, groceries,
	// dining_out...) to monthly amounts in rupees. Optional; expense
	// reduction suggestions synthesize a split when it is absent.
	ExpenseBreakdown map[string]float64 `yaml:"expense_breakdown,omitempty" json:"expense_breakdown,omitempty"`
}

// expenseIncomeRatio estimates expenses when the profile has no expense
// figure at all.
var expenseIncomeRatio = decimal.NewFromFloat(0.70)

// IncomeMonthly returns the user's monthly income, falling back to the
// Answers list, then zero.
func (p *Profile) IncomeMonthly() decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if p.MonthlyIncome != nil {
		return p.MonthlyIncome.Monthly()
	}
	if v, ok := p.answerNumber("monthly_income", "income"); ok {
		return v
	}
	if v, ok := p.answerNumber("annual_income"); ok {
		return v.Div(decimal.NewFromInt(12))
	}
	return decimal.Zero
}

// ExpensesMonthly returns monthly expenses, estimating 70% of income when
// the profile carries no expense figure.
func (p *Profile) ExpensesMonthly() decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if p.MonthlyExpenses != nil {
		return p.MonthlyExpenses.Monthly()
	}
	if v, ok := p.answerNumber("monthly_expenses", "expenses"); ok {
		return v
	}
	return p.IncomeMonthly().Mul(expenseIncomeRatio)
}

// DisposableMonthly is income minus expenses, floored at zero.
func (p *Profile) DisposableMonthly() decimal.Decimal {
	d := p.IncomeMonthly().Sub(p.ExpensesMonthly())
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// SavingsCapacityMonthly is the amount the user can realistically direct at
// goals each month: the stated savings figure when present, otherwise the
// disposable income.
func (p *Profile) SavingsCapacityMonthly() decimal.Decimal {
	if p != nil && p.MonthlySavings != nil {
		return p.MonthlySavings.Monthly()
	}
	if p != nil {
		if v, ok := p.answerNumber("monthly_savings", "savings"); ok {
			return v
		}
	}
	return p.DisposableMonthly()
}

// AgeYears returns the user's age at the given time, preferring an explicit
// age over the birth date. Unknown ages report the working-population
// median of 35.
func (p *Profile) AgeYears(now time.Time) int {
	if p == nil {
		return 35
	}
	if p.Age > 0 {
		return p.Age
	}
	if !p.BirthDate.IsZero() {
		age := now.Year() - p.BirthDate.Year()
		if now.YearDay() < p.BirthDate.YearDay() {
			age--
		}
		if age > 0 {
			return age
		}
	}
	if v, ok := p.answerNumber("age"); ok && v.IsPositive() {
		return int(v.IntPart())
	}
	return 35
}

// answerNumber scans the flat answers list for the first numeric value
// whose question id matches any of the given keys.
func (p *Profile) answerNumber(keys ...string) (decimal.Decimal, bool) {
	for _, a := range p.Answers {
		for _, key := range keys {
			if !strings.EqualFold(a.QuestionID, key) {
				continue
			}
			if v, ok := Number(a.Value); ok {
				return v, true
			}
		}
	}
	return decimal.Zero, false
}
