package remediation

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshlabs/goalplan/internal/calculators"
	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/params"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testNow = func() time.Time {
	return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
}

func testResolver() *params.Resolver {
	return params.NewResolver(params.NewMemoryStoreWithDefaults(), nil)
}

func testProfile() *domain.Profile {
	return &domain.Profile{
		UserID:          "u1",
		Age:             32,
		MonthlyIncome:   &domain.Money{Amount: decimal.NewFromInt(100000)},
		MonthlyExpenses: &domain.Money{Amount: decimal.NewFromInt(70000)},
		MonthlySavings:  &domain.Money{Amount: decimal.NewFromInt(20000)},
	}
}

func weddingGoal(months int) *domain.Goal {
	return &domain.Goal{
		ID:              "w1",
		Title:           "Sister's wedding",
		Category:        domain.CategoryWedding,
		TargetAmount:    decimal.NewFromInt(1500000),
		CurrentAmount:   decimal.NewFromInt(400000),
		TimeframeMonths: months,
		Flexibility:     domain.FlexibilitySomewhat,
	}
}

func gapFor(goal *domain.Goal, timeframeGap int) *domain.GapResult {
	gapAmount := goal.TargetAmount.Sub(goal.CurrentAmount)
	return &domain.GapResult{
		GoalID:           goal.ID,
		GoalTitle:        goal.Title,
		GoalCategory:     goal.Category,
		TargetAmount:     goal.TargetAmount,
		CurrentAmount:    goal.CurrentAmount,
		GapAmount:        gapAmount,
		GapPercentage:    gapAmount.Div(goal.TargetAmount).InexactFloat64() * 100,
		TimeframeMonths:  goal.TimeframeMonths,
		TimeframeGapMonths: timeframeGap,
		RequiredMonthly:  decimal.NewFromInt(45000),
		AvailableMonthly: decimal.NewFromInt(20000),
		CapacityGap:      decimal.NewFromInt(25000),
		Severity:         domain.SeveritySignificant,
	}
}

func TestCulturalExtensionCap(t *testing.T) {
	// A wedding 12 months out: the cultural cap of 15% of the timeframe
	// overrides the general 3-month floor, so at most 1.8 months.
	s := NewTimeframeStrategy(testResolver(), nil)
	s.now = testNow

	goal := weddingGoal(12)
	gap := gapFor(goal, 8)
	profile := testProfile()

	ext := s.EstimateRequiredExtension(goal, gap, profile)
	assert.LessOrEqual(t, ext, 1.8+1e-9)
	assert.Greater(t, ext, 0.0)

	optimal := s.OptimalExtension(goal, gap, profile)
	assert.LessOrEqual(t, optimal, 1.8+1e-9)
}

func TestExtensionFloorForFlexibleGoals(t *testing.T) {
	s := NewTimeframeStrategy(testResolver(), nil)
	s.now = testNow

	goal := &domain.Goal{
		ID:              "v1",
		Title:           "New car",
		Category:        domain.CategoryVehicle,
		TargetAmount:    decimal.NewFromInt(900000),
		CurrentAmount:   decimal.NewFromInt(850000),
		TimeframeMonths: 24,
	}
	gap := gapFor(goal, 0)
	gap.GapAmount = decimal.NewFromInt(50000)

	ext := s.EstimateRequiredExtension(goal, gap, testProfile())
	assert.GreaterOrEqual(t, ext, 3.0, "non-sensitive goals keep the 3-month floor")
}

func TestAnalyzeTimeframeImpact(t *testing.T) {
	s := NewTimeframeStrategy(testResolver(), nil)
	s.now = testNow

	goal := weddingGoal(24)
	gap := gapFor(goal, 6)

	impact := s.AnalyzeTimeframeImpact(goal, gap, 3, testProfile())
	require.NotNil(t, impact)
	assert.True(t, impact.NewRequiredMonthly.LessThan(impact.OldRequiredMonthly),
		"extending must reduce the required monthly contribution")
	assert.True(t, impact.InflationCostOfDelay.IsPositive())
	assert.Equal(t, "Minimal", impact.CulturalImpact)

	longer := s.AnalyzeTimeframeImpact(goal, gap, 9, testProfile())
	assert.Equal(t, "Significant", longer.CulturalImpact)
}

func TestIncreaseInvestmentRiskRespectsBounds(t *testing.T) {
	s := NewAllocationStrategy(testResolver(), calculators.NewFactory(testResolver(), nil), nil)
	s.now = testNow

	current := domain.Allocation{Equity: 0.50, Debt: 0.30, Gold: 0.12, Cash: 0.08}
	shifted := s.IncreaseInvestmentRisk(current, 0.25, testProfile())

	assert.InDelta(t, 1.0, shifted.Sum(), 1e-9)
	assert.LessOrEqual(t, shifted.Equity, 0.85)
	assert.GreaterOrEqual(t, shifted.Debt, 0.05)
	assert.GreaterOrEqual(t, shifted.Gold, 0.05)
	assert.GreaterOrEqual(t, shifted.Cash, 0.02)
	assert.Greater(t, shifted.Equity, current.Equity)
}

func TestOptimizeAllocationForGoal(t *testing.T) {
	s := NewAllocationStrategy(testResolver(), calculators.NewFactory(testResolver(), nil), nil)
	s.now = testNow

	goal := weddingGoal(36)
	plan, err := s.OptimizeAllocationForGoal(goal, gapFor(goal, 6), testProfile())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, plan.Proposed.Sum(), 1e-9)
	assert.GreaterOrEqual(t, plan.RiskCompatibility, 0.0)
	assert.LessOrEqual(t, plan.RiskCompatibility, 1.0)
	assert.NotEmpty(t, plan.IndiaRecommendations)
	if len(plan.TransitionPlan) > 0 {
		last := plan.TransitionPlan[len(plan.TransitionPlan)-1]
		assert.InDelta(t, 1.0, last.Allocation.Sum(), 1e-9)
	}
}

func TestAffordabilityStepFunction(t *testing.T) {
	s := NewContributionStrategy(testResolver(), nil)
	s.now = testNow
	profile := testProfile() // disposable 30,000, capacity cap 15,000

	cases := []struct {
		name       string
		additional int64
		committed  int64
		want       float64
	}{
		{"well within capacity", 5000, 0, 1.0},
		{"just within capacity", 12000, 0, 0.8},
		{"double capacity", 25000, 0, 0.5},
		{"far beyond capacity", 60000, 0, 0.3},
		{"no increase needed", 0, 10000, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := s.AnalyzeAffordability(decimal.NewFromInt(tc.additional), decimal.NewFromInt(tc.committed), profile)
			assert.InDelta(t, tc.want, a.FeasibilityScore, 1e-9)
		})
	}
}

func TestAffordabilityZeroCapacity(t *testing.T) {
	s := NewContributionStrategy(testResolver(), nil)
	s.now = testNow
	profile := testProfile()

	// Committed savings already exceed the capacity cap.
	a := s.AnalyzeAffordability(decimal.NewFromInt(5000), decimal.NewFromInt(20000), profile)
	assert.InDelta(t, 0.1, a.FeasibilityScore, 1e-9)
	assert.True(t, a.AvailableCapacity.IsZero())
}

func TestSteppedContributionPlan(t *testing.T) {
	s := NewContributionStrategy(testResolver(), nil)
	s.now = testNow

	plan := s.SteppedContributionPlan(decimal.NewFromInt(10000), decimal.NewFromInt(30000), testProfile())
	require.Len(t, plan, 4)
	assert.Equal(t, 0, plan[0].Month)
	for i := 1; i < len(plan); i++ {
		assert.True(t, plan[i].Monthly.GreaterThan(plan[i-1].Monthly), "steps must increase")
		assert.Equal(t, plan[i-1].Month+4, plan[i].Month)
	}
	assert.True(t, plan[len(plan)-1].Monthly.Equal(decimal.NewFromInt(30000)))
}

func TestSuggestExpenseReductionsCoversRequirement(t *testing.T) {
	s := NewContributionStrategy(testResolver(), nil)
	s.now = testNow
	profile := testProfile()
	profile.ExpenseBreakdown = map[string]float64{
		"rent":          21000,
		"groceries":     14000,
		"dining_out":    8000,
		"shopping":      9000,
		"entertainment": 4000,
	}

	reductions := s.SuggestExpenseReductions(decimal.NewFromInt(2500), profile)
	require.NotEmpty(t, reductions)

	selected := decimal.Zero
	for _, r := range reductions {
		if r.Selected {
			selected = selected.Add(r.MonthlyReduction)
		}
		switch r.Bucket {
		case "essential":
			assert.InDelta(t, 5.0, r.MaxReductionPct, 1e-9)
		case "discretionary":
			assert.InDelta(t, 20.0, r.MaxReductionPct, 1e-9)
		case "lifestyle":
			assert.InDelta(t, 15.0, r.MaxReductionPct, 1e-9)
		}
	}
	assert.True(t, selected.GreaterThanOrEqual(decimal.NewFromInt(2500)),
		"selected cuts %s must cover the requirement", selected)
}

func TestTargetReductionClamps(t *testing.T) {
	s := NewTargetStrategy(testResolver(), nil)
	s.now = testNow
	profile := testProfile()

	// Critical category pins to the 5% minimum.
	ef := &domain.Goal{
		ID: "e1", Category: domain.CategoryEmergencyFund,
		TargetAmount: decimal.NewFromInt(400000), TimeframeMonths: 12,
	}
	efGap := gapFor(ef, 0)
	assert.InDelta(t, 5.0, s.EstimateRequiredReduction(ef, efGap, profile), 1e-9)
	assert.InDelta(t, 5.0, s.FindOptimalReduction(ef, efGap, profile), 1e-9)

	// A huge uncoverable gap still clamps at the category maximum.
	wedding := weddingGoal(6)
	wedding.TargetAmount = decimal.NewFromInt(5000000)
	wGap := gapFor(wedding, 0)
	wGap.TargetAmount = wedding.TargetAmount
	wGap.GapAmount = decimal.NewFromInt(4800000)
	reduction := s.EstimateRequiredReduction(wedding, wGap, profile)
	assert.GreaterOrEqual(t, reduction, 5.0)
	assert.LessOrEqual(t, reduction, 20.0, "somewhat-flexible goals cap at 20%")

	vacation := &domain.Goal{
		ID: "t1", Category: domain.CategoryTravel,
		TargetAmount: decimal.NewFromInt(2000000), TimeframeMonths: 6,
		Flexibility: domain.FlexibilityVery,
	}
	vGap := gapFor(vacation, 0)
	vGap.TargetAmount = vacation.TargetAmount
	vGap.GapAmount = decimal.NewFromInt(1900000)
	assert.LessOrEqual(t, s.EstimateRequiredReduction(vacation, vGap, profile), 25.0)
}

func TestAnalyzeTargetImpactTiers(t *testing.T) {
	s := NewTargetStrategy(testResolver(), nil)
	s.now = testNow

	goal := weddingGoal(24)
	gap := gapFor(goal, 0)

	assert.Equal(t, "Minimal", s.AnalyzeTargetImpact(goal, gap, 8, testProfile()).QualityImpact)
	assert.Equal(t, "Moderate", s.AnalyzeTargetImpact(goal, gap, 15, testProfile()).QualityImpact)
	assert.Equal(t, "Significant", s.AnalyzeTargetImpact(goal, gap, 25, testProfile()).QualityImpact)

	impact := s.AnalyzeTargetImpact(goal, gap, 10, testProfile())
	assert.True(t, impact.NewTarget.LessThan(gap.TargetAmount))
	assert.Greater(t, impact.ProgressImprovement, 0.0)
	assert.NotEmpty(t, impact.ScopeSuggestions)
	assert.NotEmpty(t, impact.CulturalNote, "wedding reductions carry a cultural note")
}

func TestReprioritizePinsCriticalGoals(t *testing.T) {
	resolver := testResolver()
	s := NewPriorityStrategy(resolver, calculators.NewFactory(resolver, nil), nil)
	s.now = testNow
	profile := testProfile()

	goals := []*domain.Goal{
		{ID: "t1", Title: "Europe trip", Category: domain.CategoryTravel, TargetAmount: decimal.NewFromInt(500000), TimeframeMonths: 18},
		{ID: "e1", Title: "Emergency fund", Category: domain.CategoryEmergencyFund, TargetAmount: decimal.NewFromInt(420000), TimeframeMonths: 12},
		{ID: "w1", Title: "Wedding", Category: domain.CategoryWedding, TargetAmount: decimal.NewFromInt(1500000), TimeframeMonths: 24},
	}
	gaps := map[string]*domain.GapResult{
		"t1": gapFor(goals[0], 0),
		"e1": gapFor(goals[1], 4),
		"w1": gapFor(goals[2], 2),
	}
	gaps["e1"].Severity = domain.SeverityCritical

	ranked := s.Reprioritize(goals, gaps, profile)
	require.Len(t, ranked, 3)
	assert.Equal(t, "e1", ranked[0].GoalID, "critical category goal pins to the top")
	assert.True(t, ranked[0].Pinned)
}

func TestScorePenalizesWorseSeverity(t *testing.T) {
	resolver := testResolver()
	s := NewPriorityStrategy(resolver, calculators.NewFactory(resolver, nil), nil)
	s.now = testNow
	profile := testProfile()

	goal := &domain.Goal{ID: "v1", Title: "New car", Category: domain.CategoryVehicle,
		TargetAmount: decimal.NewFromInt(800000), TimeframeMonths: 36}

	minor := s.Score(goal, &domain.GapResult{Severity: domain.SeverityMinor}, profile)
	moderate := s.Score(goal, &domain.GapResult{Severity: domain.SeverityModerate}, profile)
	significant := s.Score(goal, &domain.GapResult{Severity: domain.SeveritySignificant}, profile)
	critical := s.Score(goal, &domain.GapResult{Severity: domain.SeverityCritical}, profile)

	assert.Less(t, critical, significant, "a worse gap costs more rank")
	assert.Less(t, significant, moderate)
	assert.Less(t, moderate, minor)
	assert.InDelta(t, minor*0.70, critical, 1e-9, "critical takes the full 30% haircut")
}

func TestScoreExemptsCriticalCategoriesFromPenalty(t *testing.T) {
	resolver := testResolver()
	s := NewPriorityStrategy(resolver, calculators.NewFactory(resolver, nil), nil)
	s.now = testNow
	profile := testProfile()

	goal := &domain.Goal{ID: "e1", Title: "Emergency fund", Category: domain.CategoryEmergencyFund,
		TargetAmount: decimal.NewFromInt(420000), TimeframeMonths: 12}

	minor := s.Score(goal, &domain.GapResult{Severity: domain.SeverityMinor}, profile)
	critical := s.Score(goal, &domain.GapResult{Severity: domain.SeverityCritical}, profile)
	assert.Equal(t, minor, critical, "protected categories keep their base score at any severity")
}

func TestIdentifyDeferrableGoals(t *testing.T) {
	resolver := testResolver()
	s := NewPriorityStrategy(resolver, calculators.NewFactory(resolver, nil), nil)
	s.now = testNow

	goals := []*domain.Goal{
		{ID: "e1", Title: "Emergency fund", Category: domain.CategoryEmergencyFund, TimeframeMonths: 12},
		{ID: "w1", Title: "Wedding", Category: domain.CategoryWedding, TimeframeMonths: 12, Flexibility: domain.FlexibilityVery},
		{ID: "t1", Title: "Goa trip", Category: domain.CategoryTravel, TimeframeMonths: 18, Flexibility: domain.FlexibilityVery},
		{ID: "h1", Title: "House", Category: domain.CategoryHomePurchase, TimeframeMonths: 48, Flexibility: domain.FlexibilityFixed},
	}
	gaps := map[string]*domain.GapResult{}
	for _, g := range goals {
		gaps[g.ID] = &domain.GapResult{GoalID: g.ID, Severity: domain.SeverityModerate}
	}

	deferrable := s.IdentifyDeferrableGoals(goals, gaps, testProfile())
	ids := map[string]bool{}
	for _, d := range deferrable {
		ids[d.GoalID] = true
		assert.NotEmpty(t, d.Rationale)
	}
	assert.False(t, ids["e1"], "critical categories never defer")
	assert.False(t, ids["w1"], "delay-sensitive goals never defer")
	assert.False(t, ids["h1"], "fixed goals never defer")
	assert.True(t, ids["t1"])
}

func TestStagedPriorityPlanAllocationBounds(t *testing.T) {
	resolver := testResolver()
	s := NewPriorityStrategy(resolver, calculators.NewFactory(resolver, nil), nil)
	s.now = testNow

	goals := []*domain.Goal{
		{ID: "e1", Title: "Emergency fund", Category: domain.CategoryEmergencyFund, TimeframeMonths: 10},
		{ID: "w1", Title: "Wedding", Category: domain.CategoryWedding, TimeframeMonths: 30},
		{ID: "r1", Title: "Retirement", Category: domain.CategoryRetirement, TimeframeMonths: 300},
	}
	gaps := map[string]*domain.GapResult{
		"e1": {GoalID: "e1", RequiredMonthly: decimal.NewFromInt(20000), Severity: domain.SeverityCritical},
		"w1": {GoalID: "w1", RequiredMonthly: decimal.NewFromInt(30000), Severity: domain.SeverityModerate},
		"r1": {GoalID: "r1", RequiredMonthly: decimal.NewFromInt(15000), Severity: domain.SeverityMinor},
	}

	plan := s.CreateStagedPriorityPlan(goals, gaps, testProfile())
	require.NotNil(t, plan)
	assert.Contains(t, plan.Immediate.GoalIDs, "e1")
	assert.Contains(t, plan.Mid.GoalIDs, "w1")
	assert.Contains(t, plan.Long.GoalIDs, "r1")
	assert.GreaterOrEqual(t, plan.Immediate.AllocationShare, 0.40)
	assert.LessOrEqual(t, plan.Immediate.AllocationShare, 0.80)
	assert.GreaterOrEqual(t, plan.Mid.AllocationShare, 0.15)
	assert.LessOrEqual(t, plan.Mid.AllocationShare, 0.50)
	assert.Equal(t, 6, plan.ReviewAfterMonths)
}

func TestStagedPriorityPlanMidTierCorners(t *testing.T) {
	resolver := testResolver()
	s := NewPriorityStrategy(resolver, calculators.NewFactory(resolver, nil), nil)
	s.now = testNow

	goals := []*domain.Goal{
		// Deferrable and inside three years: horizon keeps it in the mid tier.
		{ID: "t1", Title: "Goa trip", Category: domain.CategoryTravel, TimeframeMonths: 24, Flexibility: domain.FlexibilityVery},
		// Beyond three years but non-deferrable: the fixed date keeps it mid.
		{ID: "h1", Title: "House", Category: domain.CategoryHomePurchase, TimeframeMonths: 48, Flexibility: domain.FlexibilityFixed},
		// Beyond three years and deferrable: long.
		{ID: "r1", Title: "Retirement", Category: domain.CategoryRetirement, TimeframeMonths: 300, Flexibility: domain.FlexibilityVery},
	}
	gaps := map[string]*domain.GapResult{}
	for _, g := range goals {
		gaps[g.ID] = &domain.GapResult{GoalID: g.ID, RequiredMonthly: decimal.NewFromInt(10000), Severity: domain.SeverityMinor}
	}

	plan := s.CreateStagedPriorityPlan(goals, gaps, testProfile())
	assert.Contains(t, plan.Mid.GoalIDs, "t1")
	assert.Contains(t, plan.Mid.GoalIDs, "h1")
	assert.Contains(t, plan.Long.GoalIDs, "r1")
	assert.Empty(t, plan.Immediate.GoalIDs)
}

func TestCoordinatorGeneratesRankedOptions(t *testing.T) {
	resolver := testResolver()
	c := NewCoordinator(resolver, calculators.NewFactory(resolver, nil), testLogger())
	c.now = testNow
	c.timeframe.now = testNow
	c.allocation.now = testNow
	c.contribution.now = testNow
	c.target.now = testNow
	c.priority.now = testNow

	goal := weddingGoal(24)
	gap := gapFor(goal, 6)
	other := &domain.Goal{ID: "t1", Title: "Goa trip", Category: domain.CategoryTravel,
		TimeframeMonths: 18, Flexibility: domain.FlexibilityVery,
		MonthlyContribution: decimal.NewFromInt(5000)}
	allGoals := []*domain.Goal{goal, other}
	gaps := map[string]*domain.GapResult{goal.ID: gap, other.ID: {GoalID: other.ID, Severity: domain.SeverityMinor}}

	plan, err := c.GenerateOptions(goal, gap, allGoals, gaps, testProfile())
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.GreaterOrEqual(t, len(plan.Options), 5, "all strategies plus cross-cutting options")
	assert.Equal(t, plan.Options[0].Description, plan.Recommended)

	seen := map[string]bool{}
	for _, opt := range plan.Options {
		assert.False(t, seen[opt.Description], "option %q duplicated", opt.Description)
		seen[opt.Description] = true
		assert.GreaterOrEqual(t, opt.FeasibilityScore, 0.0)
		assert.LessOrEqual(t, opt.FeasibilityScore, 100.0)
		assert.NotEmpty(t, opt.ImplementationSteps)
	}
	assert.True(t, seen["Extend Timeframe"])
	assert.True(t, seen["Increase Monthly Contribution"])
	assert.True(t, seen["Reduce Target Amount"])
}

func TestClassifyCultural(t *testing.T) {
	cases := []struct {
		goal *domain.Goal
		want CulturalTag
	}{
		{&domain.Goal{Category: domain.CategoryWedding}, TagWedding},
		{&domain.Goal{Category: domain.CategoryEducation}, TagEducation},
		{&domain.Goal{Category: domain.CategoryCustom, Title: "Char Dham yatra"}, TagReligious},
		{&domain.Goal{Category: domain.CategoryCustom, Title: "Support for mother"}, TagParentCare},
		{&domain.Goal{Category: domain.CategoryCustom, Title: "New laptop"}, TagUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyCultural(tc.goal), "goal %q", tc.goal.Title)
	}
}
