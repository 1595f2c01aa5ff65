package gap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshlabs/goalplan/internal/calculators"
	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/params"
)

var testNow = func() time.Time {
	return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
}

func newTestAnalyzer() *Analyzer {
	resolver := params.NewResolver(params.NewMemoryStoreWithDefaults(), nil)
	return NewAnalyzer(calculators.NewFactory(resolver, nil), resolver, nil).WithNow(testNow)
}

func profileWithCapacity(income, expenses, savings int64) *domain.Profile {
	p := &domain.Profile{
		UserID:          "u1",
		Age:             32,
		MonthlyIncome:   &domain.Money{Amount: decimal.NewFromInt(income)},
		MonthlyExpenses: &domain.Money{Amount: decimal.NewFromInt(expenses)},
	}
	if savings > 0 {
		p.MonthlySavings = &domain.Money{Amount: decimal.NewFromInt(savings)}
	}
	return p
}

func TestAnalyzeGoalGapScenarioA(t *testing.T) {
	// target 10,00,000, current 2,00,000, 24 months, capacity 15,000/mo.
	a := newTestAnalyzer()
	goal := &domain.Goal{
		ID:              "g1",
		Title:           "Down payment",
		Category:        domain.CategoryCustom,
		TargetAmount:    decimal.NewFromInt(1000000),
		CurrentAmount:   decimal.NewFromInt(200000),
		TimeframeMonths: 24,
	}
	profile := profileWithCapacity(100000, 85000, 15000)

	result, err := a.AnalyzeGoalGap(goal, profile)
	require.NoError(t, err)

	assert.True(t, result.GapAmount.Equal(decimal.NewFromInt(800000)))
	assert.InDelta(t, 80.0, result.GapPercentage, 0.01)
	assert.True(t, result.RequiredMonthly.GreaterThan(decimal.NewFromInt(15000)),
		"required monthly %s must exceed the 15k capacity", result.RequiredMonthly)
	assert.True(t, result.CapacityGap.IsPositive())
	assert.True(t, result.Severity.AtLeast(domain.SeveritySignificant),
		"expected CRITICAL or SIGNIFICANT, got %s", result.Severity)
	assert.Greater(t, result.TimeframeGapMonths, 0, "15k/mo cannot close 8L in 24 months")
	assert.NotEmpty(t, result.ProjectedValues)
	assert.NotEmpty(t, result.RecommendedAdjustments)
}

func TestAnalyzeGoalGapFullyFunded(t *testing.T) {
	a := newTestAnalyzer()
	goal := &domain.Goal{
		ID:              "g2",
		Title:           "Vacation",
		Category:        domain.CategoryTravel,
		TargetAmount:    decimal.NewFromInt(200000),
		CurrentAmount:   decimal.NewFromInt(250000),
		TimeframeMonths: 12,
	}
	result, err := a.AnalyzeGoalGap(goal, profileWithCapacity(100000, 60000, 0))
	require.NoError(t, err)

	assert.True(t, result.GapAmount.IsZero(), "overfunded goals clamp at zero gap")
	assert.Equal(t, 0.0, result.GapPercentage)
	assert.Equal(t, 0, result.TimeframeGapMonths)
	assert.Equal(t, domain.SeverityMinor, result.Severity)
}

func TestAnalyzeGoalGapDerivesTargetFromCalculator(t *testing.T) {
	a := newTestAnalyzer()
	goal := &domain.Goal{
		ID:              "g3",
		Title:           "Emergency fund",
		Category:        domain.CategoryEmergencyFund,
		TimeframeMonths: 12,
	}
	result, err := a.AnalyzeGoalGap(goal, profileWithCapacity(100000, 60000, 20000))
	require.NoError(t, err)

	// 6 months of 60k expenses.
	assert.True(t, result.TargetAmount.Equal(decimal.NewFromInt(360000)), "got %s", result.TargetAmount)
	assert.Contains(t, result.FallbackNotes[0], "derived from category calculator")
}

func TestAnalyzeGoalGapIdempotent(t *testing.T) {
	a := newTestAnalyzer()
	goal := &domain.Goal{
		ID:              "g4",
		Title:           "Wedding",
		Category:        domain.CategoryWedding,
		TargetAmount:    decimal.NewFromInt(1500000),
		CurrentAmount:   decimal.NewFromInt(300000),
		TimeframeMonths: 18,
	}
	profile := profileWithCapacity(120000, 70000, 25000)

	first, err := a.AnalyzeGoalGap(goal, profile)
	require.NoError(t, err)
	second, err := a.AnalyzeGoalGap(goal, profile)
	require.NoError(t, err)

	assert.Equal(t, first.ToDict(), second.ToDict(), "identical inputs must yield identical results")
}

func TestSeverityMonotoneInGapPercentage(t *testing.T) {
	// For fixed capacity and timeframe figures, a strictly larger gap
	// percentage ranks equal-or-worse.
	capacities := []float64{0, 20, 40, 70}
	timeframes := []int{0, 2, 6, 24}
	for _, cap := range capacities {
		for _, tf := range timeframes {
			prev := classifySeverity(0, cap, tf)
			for pct := 1.0; pct <= 100; pct++ {
				cur := classifySeverity(pct, cap, tf)
				assert.True(t, cur.AtLeast(prev),
					"severity regressed at gap%%=%v cap=%v tf=%v: %s < %s", pct, cap, tf, cur, prev)
				prev = cur
			}
		}
	}
}

func TestSeverityMonotoneInCapacityGap(t *testing.T) {
	for _, gapPct := range []float64{0, 15, 35, 60} {
		prev := classifySeverity(gapPct, 0, 0)
		for cap := 1.0; cap <= 100; cap++ {
			cur := classifySeverity(gapPct, cap, 0)
			assert.True(t, cur.AtLeast(prev))
			prev = cur
		}
	}
}

func TestAnalyzeGoalGapZeroIncomeProfileDegrades(t *testing.T) {
	a := newTestAnalyzer()
	goal := &domain.Goal{
		ID:              "g5",
		Title:           "Anything",
		Category:        domain.CategoryCustom,
		TargetAmount:    decimal.NewFromInt(500000),
		TimeframeMonths: 24,
	}
	result, err := a.AnalyzeGoalGap(goal, &domain.Profile{})
	require.NoError(t, err, "zero-income profiles degrade, never error")
	require.NotNil(t, result)
	assert.Equal(t, "g5", result.GoalID)
	assert.True(t, result.GapAmount.Equal(decimal.NewFromInt(500000)))
	assert.InDelta(t, 100.0, result.CapacityGapPercentage, 0.01, "no income pegs capacity gap at 100%")
	assert.Equal(t, domain.SeverityCritical, result.Severity)
}

func TestAnalyzeOverallGap(t *testing.T) {
	a := newTestAnalyzer()
	goals := []*domain.Goal{
		{
			ID: "wedding", Title: "Wedding", Category: domain.CategoryWedding,
			TargetAmount: decimal.NewFromInt(2000000), CurrentAmount: decimal.NewFromInt(100000),
			TimeframeMonths: 18,
		},
		{
			ID: "home", Title: "Home", Category: domain.CategoryHomePurchase,
			TargetAmount: decimal.NewFromInt(3000000), CurrentAmount: decimal.NewFromInt(200000),
			TimeframeMonths: 36,
		},
		{
			ID: "trip", Title: "Trip", Category: domain.CategoryTravel,
			TargetAmount: decimal.NewFromInt(100000), CurrentAmount: decimal.NewFromInt(95000),
			TimeframeMonths: 12,
		},
	}
	profile := profileWithCapacity(150000, 90000, 40000)

	analysis, err := a.AnalyzeOverallGap(goals, profile)
	require.NoError(t, err)
	require.Len(t, analysis.GoalGaps, 3)

	expectedTotal := decimal.NewFromInt(1900000 + 2800000 + 5000)
	assert.True(t, analysis.TotalGapAmount.Equal(expectedTotal), "got %s", analysis.TotalGapAmount)

	// Wedding and home each need far more than 40k/mo combined.
	require.NotEmpty(t, analysis.ResourceConflicts)
	found := false
	for _, c := range analysis.ResourceConflicts {
		if (c.GoalA == "wedding" && c.GoalB == "home") || (c.GoalA == "home" && c.GoalB == "wedding") {
			found = true
		}
	}
	assert.True(t, found, "wedding and home should conflict over capacity")
	assert.Equal(t, domain.AssessmentSevereStrain, analysis.OverallAssessment)
}

func TestOverallGapDiscountsExistingCommitments(t *testing.T) {
	a := newTestAnalyzer()
	goals := []*domain.Goal{
		{
			ID: "car", Title: "New car", Category: domain.CategoryVehicle,
			TargetAmount: decimal.NewFromInt(900000), TimeframeMonths: 24,
		},
		{
			ID: "school", Title: "School fund", Category: domain.CategoryCustom,
			TargetAmount: decimal.NewFromInt(600000), TimeframeMonths: 36,
			MonthlyContribution: decimal.NewFromInt(15000),
		},
	}
	profile := profileWithCapacity(150000, 90000, 40000)

	analysis, err := a.AnalyzeOverallGap(goals, profile)
	require.NoError(t, err)
	require.Len(t, analysis.GoalGaps, 2)
	assert.True(t, analysis.GoalGaps[0].AvailableMonthly.Equal(decimal.NewFromInt(25000)),
		"car capacity is net of the school fund's commitment, got %s", analysis.GoalGaps[0].AvailableMonthly)
	assert.True(t, analysis.GoalGaps[1].AvailableMonthly.Equal(decimal.NewFromInt(40000)),
		"the school fund has no competing commitments")

	solo, err := a.AnalyzeGoalGap(goals[0], profile)
	require.NoError(t, err)
	assert.True(t, solo.AvailableMonthly.Equal(decimal.NewFromInt(40000)),
		"single-goal analysis sees the full capacity")
}

func TestAssessOverallTiers(t *testing.T) {
	cap := decimal.NewFromInt(50000)
	assert.Equal(t, domain.AssessmentOnTrack, assessOverall(decimal.NewFromInt(40000), cap))
	assert.Equal(t, domain.AssessmentOnTrack, assessOverall(decimal.Zero, decimal.Zero))
	assert.Equal(t, domain.AssessmentModerateStrain, assessOverall(decimal.NewFromInt(70000), cap))
	assert.Equal(t, domain.AssessmentSevereStrain, assessOverall(decimal.NewFromInt(120000), cap))
	assert.Equal(t, domain.AssessmentSevereStrain, assessOverall(decimal.NewFromInt(1000), decimal.Zero))
}
