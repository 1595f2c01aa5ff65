package domain

import (
	"github.com/shopspring/decimal"
)

// Severity classifies how serious a funding gap is. Ordering matters:
// CRITICAL > SIGNIFICANT > MODERATE > MINOR.
type Severity string

const (
	SeverityCritical    Severity = "CRITICAL"
	SeveritySignificant Severity = "SIGNIFICANT"
	SeverityModerate    Severity = "MODERATE"
	SeverityMinor       Severity = "MINOR"
)

// Rank maps a severity to its position in the ordering, MINOR being 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeveritySignificant:
		return 2
	case SeverityModerate:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is equal or more severe than other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// ProjectedPoint is one month of the projected-versus-required series.
type ProjectedPoint struct {
	Month     int             `json:"month"`
	Projected decimal.Decimal `json:"projected"`
	Required  decimal.Decimal `json:"required"`
}

// GapResult is the outcome of analyzing a single goal's funding gap.
type GapResult struct {
	GoalID       string   `json:"goal_id"`
	GoalTitle    string   `json:"goal_title"`
	GoalCategory Category `json:"goal_category"`

	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	GapAmount     decimal.Decimal `json:"gap_amount"`
	GapPercentage float64         `json:"gap_percentage"`

	TimeframeMonths    int `json:"timeframe_months"`
	TimeframeGapMonths int `json:"timeframe_gap_months"`

	RequiredMonthly       decimal.Decimal `json:"required_monthly"`
	AvailableMonthly      decimal.Decimal `json:"available_monthly"`
	CapacityGap           decimal.Decimal `json:"capacity_gap"`
	CapacityGapPercentage float64         `json:"capacity_gap_percentage"`

	Severity Severity `json:"severity"`

	RecommendedAdjustments map[string]string `json:"recommended_adjustments,omitempty"`
	ResourceConflicts      []string          `json:"resource_conflicts,omitempty"`
	Description            string            `json:"description"`
	ProjectedValues        []ProjectedPoint  `json:"projected_values,omitempty"`

	// FallbackNotes records every degraded-input default applied during
	// analysis, so callers can tell an exact result from an approximate one.
	FallbackNotes []string `json:"fallback_notes,omitempty"`
}

// ToDict flattens the result into JSON-compatible primitives so it can
// cross a process or API boundary unchanged.
func (g *GapResult) ToDict() map[string]any {
	adjustments := map[string]any{}
	for k, v := range g.RecommendedAdjustments {
		adjustments[k] = v
	}
	projected := make([]any, 0, len(g.ProjectedValues))
	for _, p := range g.ProjectedValues {
		projected = append(projected, map[string]any{
			"month":     p.Month,
			"projected": p.Projected.InexactFloat64(),
			"required":  p.Required.InexactFloat64(),
		})
	}
	return map[string]any{
		"goal_id":                 g.GoalID,
		"goal_title":              g.GoalTitle,
		"goal_category":           string(g.GoalCategory),
		"target_amount":           g.TargetAmount.InexactFloat64(),
		"current_amount":          g.CurrentAmount.InexactFloat64(),
		"gap_amount":              g.GapAmount.InexactFloat64(),
		"gap_percentage":          g.GapPercentage,
		"timeframe_months":        g.TimeframeMonths,
		"timeframe_gap_months":    g.TimeframeGapMonths,
		"required_monthly":        g.RequiredMonthly.InexactFloat64(),
		"available_monthly":       g.AvailableMonthly.InexactFloat64(),
		"capacity_gap":            g.CapacityGap.InexactFloat64(),
		"capacity_gap_percentage": g.CapacityGapPercentage,
		"severity":                string(g.Severity),
		"recommended_adjustments": adjustments,
		"resource_conflicts":      append([]string{}, g.ResourceConflicts...),
		"description":             g.Description,
		"projected_values":        projected,
		"fallback_notes":          append([]string{}, g.FallbackNotes...),
	}
}

// OverallAssessment is the qualitative household-level tier.
type OverallAssessment string

const (
	AssessmentOnTrack        OverallAssessment = "on_track"
	AssessmentModerateStrain OverallAssessment = "moderate_strain"
	AssessmentSevereStrain   OverallAssessment = "severe_strain"
)

// ResourceConflict flags two goals whose combined required contributions
// exceed the household's capacity.
type ResourceConflict struct {
	GoalA            string          `json:"goal_a"`
	GoalB            string          `json:"goal_b"`
	CombinedRequired decimal.Decimal `json:"combined_required"`
}

// OverallGapAnalysis aggregates per-goal gaps across the whole plan.
type OverallGapAnalysis struct {
	GoalGaps             []GapResult        `json:"goal_gaps"`
	ResourceConflicts    []ResourceConflict `json:"resource_conflicts"`
	TotalGapAmount       decimal.Decimal    `json:"total_gap_amount"`
	TotalRequiredMonthly decimal.Decimal    `json:"total_required_monthly"`
	OverallAssessment    OverallAssessment  `json:"overall_assessment"`
}
