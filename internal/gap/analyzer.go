// Package gap computes funding-gap metrics for financial goals: how far a
// goal is from its target in amount, time and monthly capacity, and how
// severe that shortfall is.
package gap

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/calculators"
	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/finmath"
	"github.com/niveshlabs/goalplan/internal/params"
)

// maxProjectionMonths caps pace projections so an unreachable goal still
// yields a finite timeframe gap.
const maxProjectionMonths = 600

// Analyzer computes gap results for goals. It holds no per-run state; the
// same inputs always produce the same result.
type Analyzer struct {
	factory *calculators.Factory
	params  *params.Resolver
	log     *logrus.Logger
	now     func() time.Time
}

// NewAnalyzer creates an analyzer. A nil logger discards output.
func NewAnalyzer(factory *calculators.Factory, resolver *params.Resolver, log *logrus.Logger) *Analyzer {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Analyzer{factory: factory, params: resolver, log: log, now: time.Now}
}

// WithNow fixes the analyzer's clock. Tests use it for reproducible
// horizons.
func (a *Analyzer) WithNow(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// AnalyzeGoalGap computes the full gap picture for one goal. The only error
// it returns is an unresolvable goal category; every other problem degrades
// to documented defaults recorded in FallbackNotes.
func (a *Analyzer) AnalyzeGoalGap(goal *domain.Goal, profile *domain.Profile) (*domain.GapResult, error) {
	return a.analyzeGoalGap(goal, profile, decimal.Zero)
}

// analyzeGoalGap additionally discounts capacity by the monthly amounts
// already committed to the household's other goals.
func (a *Analyzer) analyzeGoalGap(goal *domain.Goal, profile *domain.Profile, committed decimal.Decimal) (result *domain.GapResult, err error) {
	calc, err := a.factory.ForCategory(goal.Category)
	if err != nil {
		return nil, fmt.Errorf("analyze goal %s: %w", goal.ID, err)
	}

	// A panic below (zero-income division, malformed metadata) is a
	// computation error, not a user error: log it and return a safe,
	// structurally valid fallback.
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logrus.Fields{"goal": goal.ID, "panic": r}).
				Error("gap analysis failed, returning fallback result")
			result = a.fallbackResult(goal)
			err = nil
		}
	}()

	var notes []string

	target := goal.TargetAmount
	if !target.IsPositive() {
		target = calc.AmountNeeded(goal, profile)
		notes = append(notes, "target amount derived from category calculator")
	}

	gapAmount := target.Sub(goal.CurrentAmount)
	if gapAmount.IsNegative() {
		gapAmount = decimal.Zero
	}

	gapPct := 0.0
	if target.IsPositive() {
		gapPct = gapAmount.Div(target).InexactFloat64() * 100
	}

	months := calc.TimeAvailable(goal, profile)
	if goal.TimeframeMonths == 0 && goal.TargetDate.IsZero() {
		notes = append(notes, fmt.Sprintf("no target date on goal, assuming %d-month timeframe", domain.DefaultTimeframeMonths))
	}

	userID := ""
	if profile != nil {
		userID = profile.UserID
	}
	annualReturn := decimal.NewFromFloat(a.params.Get("returns.assumed_annual", 0.08, userID))

	requiredMonthly := finmath.RequiredMonthlyContribution(target, goal.CurrentAmount, months, annualReturn)
	available := profile.SavingsCapacityMonthly().Sub(committed)
	if available.IsNegative() {
		available = decimal.Zero
	}
	if available.IsZero() && gapAmount.IsPositive() {
		notes = append(notes, "no savings capacity in profile, pace-based metrics assume zero contribution")
	}

	// Pace: the contribution the goal is actually receiving, else whatever
	// capacity the household has.
	pace := goal.MonthlyContribution
	if !pace.IsPositive() {
		pace = available
	}

	timeframeGap := 0
	if gapAmount.IsPositive() {
		achievable := finmath.MonthsToReach(target, goal.CurrentAmount, pace, annualReturn, maxProjectionMonths)
		if achievable > months {
			timeframeGap = achievable - months
		}
	}

	capacityGap := requiredMonthly.Sub(available)
	if capacityGap.IsNegative() {
		capacityGap = decimal.Zero
	}
	capacityGapPct := 0.0
	if income := profile.IncomeMonthly(); income.IsPositive() {
		capacityGapPct = capacityGap.Div(income).InexactFloat64() * 100
	} else if capacityGap.IsPositive() {
		capacityGapPct = 100
	}

	severity := classifySeverity(gapPct, capacityGapPct, timeframeGap)

	result = &domain.GapResult{
		GoalID:                 goal.ID,
		GoalTitle:              goal.Title,
		GoalCategory:           goal.Category,
		TargetAmount:           target,
		CurrentAmount:          goal.CurrentAmount,
		GapAmount:              gapAmount,
		GapPercentage:          gapPct,
		TimeframeMonths:        months,
		TimeframeGapMonths:     timeframeGap,
		RequiredMonthly:        requiredMonthly,
		AvailableMonthly:       available,
		CapacityGap:            capacityGap,
		CapacityGapPercentage:  capacityGapPct,
		Severity:               severity,
		RecommendedAdjustments: recommendAdjustments(severity, timeframeGap, capacityGap),
		Description:            describeGap(goal, gapAmount, gapPct, severity),
		ProjectedValues:        a.projectValues(goal, target, pace, months, annualReturn),
		FallbackNotes:          notes,
	}
	return result, nil
}

// AnalyzeOverallGap runs per-goal analysis across the plan, totals the
// shortfall, flags goal pairs competing for the same capacity and grades
// the household's overall position.
func (a *Analyzer) AnalyzeOverallGap(goals []*domain.Goal, profile *domain.Profile) (*domain.OverallGapAnalysis, error) {
	analysis := &domain.OverallGapAnalysis{}

	for _, goal := range goals {
		// Capacity available to this goal excludes what the other goals
		// already receive each month.
		committed := decimal.Zero
		for _, other := range goals {
			if other.ID != goal.ID && other.MonthlyContribution.IsPositive() {
				committed = committed.Add(other.MonthlyContribution)
			}
		}
		result, err := a.analyzeGoalGap(goal, profile, committed)
		if err != nil {
			return nil, err
		}
		analysis.GoalGaps = append(analysis.GoalGaps, *result)
		analysis.TotalGapAmount = analysis.TotalGapAmount.Add(result.GapAmount)
		analysis.TotalRequiredMonthly = analysis.TotalRequiredMonthly.Add(result.RequiredMonthly)
	}

	capacity := profile.SavingsCapacityMonthly()
	for i := range analysis.GoalGaps {
		for j := i + 1; j < len(analysis.GoalGaps); j++ {
			gi, gj := &analysis.GoalGaps[i], &analysis.GoalGaps[j]
			combined := gi.RequiredMonthly.Add(gj.RequiredMonthly)
			if combined.GreaterThan(capacity) && gi.GapAmount.IsPositive() && gj.GapAmount.IsPositive() {
				analysis.ResourceConflicts = append(analysis.ResourceConflicts, domain.ResourceConflict{
					GoalA:            gi.GoalID,
					GoalB:            gj.GoalID,
					CombinedRequired: combined,
				})
				gi.ResourceConflicts = append(gi.ResourceConflicts, gj.GoalID)
				gj.ResourceConflicts = append(gj.ResourceConflicts, gi.GoalID)
			}
		}
	}

	analysis.OverallAssessment = assessOverall(analysis.TotalRequiredMonthly, capacity)
	return analysis, nil
}

// assessOverall grades total required monthly saving against capacity.
func assessOverall(totalRequired, capacity decimal.Decimal) domain.OverallAssessment {
	if !totalRequired.IsPositive() {
		return domain.AssessmentOnTrack
	}
	if !capacity.IsPositive() {
		return domain.AssessmentSevereStrain
	}
	ratio := totalRequired.Div(capacity)
	switch {
	case ratio.LessThanOrEqual(decimal.NewFromInt(1)):
		return domain.AssessmentOnTrack
	case ratio.LessThanOrEqual(decimal.NewFromFloat(1.5)):
		return domain.AssessmentModerateStrain
	default:
		return domain.AssessmentSevereStrain
	}
}

// projectValues builds the projected-versus-required series at the current
// pace, sampled at up to twelve points across the horizon.
func (a *Analyzer) projectValues(goal *domain.Goal, target, pace decimal.Decimal, months int, annualReturn decimal.Decimal) []domain.ProjectedPoint {
	if months <= 0 || !target.IsPositive() {
		return nil
	}
	step := months / 12
	if step < 1 {
		step = 1
	}
	gapTotal := target.Sub(goal.CurrentAmount)
	var points []domain.ProjectedPoint
	for m := step; m <= months; m += step {
		required := goal.CurrentAmount.Add(gapTotal.Mul(decimal.NewFromInt(int64(m))).Div(decimal.NewFromInt(int64(months))))
		points = append(points, domain.ProjectedPoint{
			Month:     m,
			Projected: finmath.FutureValue(goal.CurrentAmount, pace, m, annualReturn).Round(0),
			Required:  required.Round(0),
		})
	}
	return points
}

func recommendAdjustments(severity domain.Severity, timeframeGap int, capacityGap decimal.Decimal) map[string]string {
	adjustments := map[string]string{}
	if severity == domain.SeverityMinor {
		adjustments["stay_course"] = "goal is close to plan; keep current contributions"
		return adjustments
	}
	if timeframeGap > 0 {
		adjustments["extend_timeframe"] = fmt.Sprintf("current pace needs roughly %d more months", timeframeGap)
	}
	if capacityGap.IsPositive() {
		adjustments["increase_contribution"] = fmt.Sprintf("monthly saving is short by about ₹%s", capacityGap.Round(0))
	}
	if severity.AtLeast(domain.SeveritySignificant) {
		adjustments["review_allocation"] = "consider a higher-return allocation for the remaining horizon"
		adjustments["review_target"] = "consider trimming the target scope if flexibility allows"
	}
	return adjustments
}

func describeGap(goal *domain.Goal, gapAmount decimal.Decimal, gapPct float64, severity domain.Severity) string {
	if !gapAmount.IsPositive() {
		return fmt.Sprintf("%s is fully funded", goal.Title)
	}
	return fmt.Sprintf("%s is short ₹%s (%.1f%% of target); severity %s",
		goal.Title, gapAmount.Round(0), gapPct, severity)
}

// fallbackResult is the safe result returned when analysis panics partway:
// all fields present, amounts taken straight from the goal, severity
// MODERATE as the neutral tier.
func (a *Analyzer) fallbackResult(goal *domain.Goal) *domain.GapResult {
	gapAmount := goal.TargetAmount.Sub(goal.CurrentAmount)
	if gapAmount.IsNegative() {
		gapAmount = decimal.Zero
	}
	gapPct := 0.0
	if goal.TargetAmount.IsPositive() {
		gapPct = gapAmount.Div(goal.TargetAmount).InexactFloat64() * 100
	}
	return &domain.GapResult{
		GoalID:          goal.ID,
		GoalTitle:       goal.Title,
		GoalCategory:    goal.Category,
		TargetAmount:    goal.TargetAmount,
		CurrentAmount:   goal.CurrentAmount,
		GapAmount:       gapAmount,
		GapPercentage:   gapPct,
		TimeframeMonths: goal.RemainingMonths(a.now()),
		Severity:        domain.SeverityModerate,
		Description:     fmt.Sprintf("%s: analysis degraded, approximate figures only", goal.Title),
		FallbackNotes:   []string{"internal computation error; approximate fallback result"},
	}
}
