// Package finmath holds the small set of time-value-of-money formulas the
// calculators and strategies share.
package finmath

import "github.com/shopspring/decimal"

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// MonthlyRate converts an annual rate (fraction) to a simple monthly rate.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// CompoundFactor returns (1+rate)^periods.
func CompoundFactor(rate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return one
	}
	return one.Add(rate).Pow(decimal.NewFromInt(int64(periods)))
}

// FutureValue projects a starting balance plus a level monthly contribution
// forward at the given annual return over the given number of months.
func FutureValue(current, monthly decimal.Decimal, months int, annualRate decimal.Decimal) decimal.Decimal {
	if months <= 0 {
		return current
	}
	r := MonthlyRate(annualRate)
	growth := CompoundFactor(r, months)
	fv := current.Mul(growth)
	if monthly.IsZero() {
		return fv
	}
	if r.IsZero() {
		return fv.Add(monthly.Mul(decimal.NewFromInt(int64(months))))
	}
	// Ordinary annuity: PMT * ((1+r)^n - 1) / r
	annuity := monthly.Mul(growth.Sub(one)).Div(r)
	return fv.Add(annuity)
}

// RequiredMonthlyContribution returns the level monthly amount needed to
// grow the current balance to the target over the given months at the given
// annual return: PMT = FV*r / ((1+r)^n - 1), where FV is the shortfall not
// covered by compounding the current balance.
func RequiredMonthlyContribution(target, current decimal.Decimal, months int, annualRate decimal.Decimal) decimal.Decimal {
	if months <= 0 {
		months = 1
	}
	r := MonthlyRate(annualRate)
	growth := CompoundFactor(r, months)
	fvNeeded := target.Sub(current.Mul(growth))
	if !fvNeeded.IsPositive() {
		return decimal.Zero
	}
	if r.IsZero() {
		return fvNeeded.Div(decimal.NewFromInt(int64(months)))
	}
	return fvNeeded.Mul(r).Div(growth.Sub(one))
}

// MonthsToReach returns how many months of the given level contribution it
// takes to close the shortfall from current to target at the given annual
// return, stepping month by month. Returns maxMonths when the contribution
// can never get there within the cap.
func MonthsToReach(target, current, monthly decimal.Decimal, annualRate decimal.Decimal, maxMonths int) int {
	if !target.GreaterThan(current) {
		return 0
	}
	if maxMonths <= 0 {
		maxMonths = 600
	}
	r := MonthlyRate(annualRate)
	balance := current
	for m := 1; m <= maxMonths; m++ {
		balance = balance.Mul(one.Add(r)).Add(monthly)
		if balance.GreaterThanOrEqual(target) {
			return m
		}
	}
	return maxMonths
}
