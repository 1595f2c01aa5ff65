package domain

// Impact metric keys used in RemediationOption.ImpactMetrics. Every key is
// optional; values are plain numbers.
const (
	MetricGapReductionPct      = "gap_reduction_percentage" // 0-100
	MetricTimeframeExtension   = "timeframe_extension"      // months
	MetricMonthlyAdjustment    = "monthly_savings_adjustment"
	MetricTargetAdjustment     = "target_adjustment"          // rupees removed from target
	MetricTargetReductionPct   = "target_reduction_percentage" // 0-100
	MetricReturnImprovement    = "expected_return_improvement" // annual fraction
	MetricRiskIncrease         = "risk_increase"               // equity share added, 0-1
	MetricPriorityShift        = "priority_shift"              // signed score delta
	MetricInflationCostOfDelay = "inflation_cost_of_delay"     // rupees
)

// ImplementationStep is one ordered action in a remediation plan.
type ImplementationStep struct {
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// RemediationOption is one candidate fix for a funding gap. Options are
// created fresh per analysis run and never persisted.
type RemediationOption struct {
	Description         string               `json:"description"`
	ImpactMetrics       map[string]float64   `json:"impact_metrics"`
	FeasibilityScore    float64              `json:"feasibility_score"` // 0-100
	ImplementationSteps []ImplementationStep `json:"implementation_steps"`
}

// Metric reads an impact metric, returning def when the key is absent.
func (o *RemediationOption) Metric(key string, def float64) float64 {
	if v, ok := o.ImpactMetrics[key]; ok {
		return v
	}
	return def
}

// ToDict flattens the option into JSON-compatible primitives.
func (o *RemediationOption) ToDict() map[string]any {
	metrics := map[string]any{}
	for k, v := range o.ImpactMetrics {
		metrics[k] = v
	}
	steps := make([]any, 0, len(o.ImplementationSteps))
	for _, s := range o.ImplementationSteps {
		steps = append(steps, map[string]any{
			"action": s.Action,
			"note":   s.Note,
		})
	}
	return map[string]any{
		"description":          o.Description,
		"impact_metrics":       metrics,
		"feasibility_score":    o.FeasibilityScore,
		"implementation_steps": steps,
	}
}

// StepActions returns just the action strings, which the impact analysis
// keyword scoring works from.
func (o *RemediationOption) StepActions() []string {
	actions := make([]string, 0, len(o.ImplementationSteps))
	for _, s := range o.ImplementationSteps {
		actions = append(actions, s.Action+" "+s.Note)
	}
	return actions
}
