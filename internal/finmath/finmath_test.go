package finmath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestRequiredMonthlyContribution(t *testing.T) {
	// Zero-rate sanity: straight division.
	pmt := RequiredMonthlyContribution(d(120000), d(0), 12, decimal.Zero)
	assert.True(t, pmt.Equal(d(10000)))

	// With growth the payment must be below the straight-line amount but
	// still positive.
	pmt = RequiredMonthlyContribution(d(120000), d(0), 12, d(0.08))
	assert.True(t, pmt.LessThan(d(10000)))
	assert.True(t, pmt.GreaterThan(d(9000)))

	// Already funded.
	pmt = RequiredMonthlyContribution(d(100000), d(100000), 24, d(0.08))
	assert.True(t, pmt.IsZero())
}

func TestScenarioARequiredContributionExceedsCapacity(t *testing.T) {
	// target 10,00,000, current 2,00,000, 24 months, 8% annual: the required
	// monthly contribution must exceed a 15,000 capacity.
	pmt := RequiredMonthlyContribution(d(1000000), d(200000), 24, d(0.08))
	assert.True(t, pmt.GreaterThan(d(15000)), "got %s", pmt)
}

func TestFutureValueRoundTripsRequiredContribution(t *testing.T) {
	target, current := d(500000), d(50000)
	months := 36
	rate := d(0.08)
	pmt := RequiredMonthlyContribution(target, current, months, rate)
	fv := FutureValue(current, pmt, months, rate)
	diff := fv.Sub(target).Abs()
	assert.True(t, diff.LessThan(d(1000)), "future value %s should land near target, off by %s", fv, diff)
}

func TestMonthsToReach(t *testing.T) {
	assert.Equal(t, 0, MonthsToReach(d(100), d(100), d(10), d(0.08), 600))

	m := MonthsToReach(d(120000), d(0), d(10000), decimal.Zero, 600)
	assert.Equal(t, 12, m)

	// With positive returns it gets there no later.
	m2 := MonthsToReach(d(120000), d(0), d(10000), d(0.10), 600)
	assert.LessOrEqual(t, m2, m)

	// Unreachable targets cap out.
	assert.Equal(t, 600, MonthsToReach(d(1e9), d(0), d(1), decimal.Zero, 600))
}
