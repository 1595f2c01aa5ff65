package impact

import (
	"fmt"
	"math"
	"sort"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// Composite score weights. Gap closure dominates, then feasibility, then
// how little the option disturbs the monthly budget and the calendar.
const (
	weightGapReduction = 0.4
	weightFeasibility  = 0.3
	weightMonthlyCost  = 0.2
	weightTimeCost     = 0.1
)

// ScoredOption pairs an option with its two ranking scores.
type ScoredOption struct {
	Option         *domain.RemediationOption `json:"option"`
	CompositeScore float64                   `json:"composite_score"`
	IndianScore    float64                   `json:"indian_score"`
}

// StrategyComparison is the side-by-side view of competing options.
type StrategyComparison struct {
	Ranked         []ScoredOption `json:"ranked"`
	IndianRanked   []ScoredOption `json:"indian_ranked"`
	Tradeoffs      []string       `json:"tradeoffs"`
	Recommendation string         `json:"recommendation"`
	DivergenceNote string         `json:"divergence_note,omitempty"`
}

// compositeScore builds the weighted 0-1 score. Monthly adjustment and
// timeframe extension are normalized against the largest magnitude in the
// option set so the inverse terms stay comparable.
func compositeScore(opt *domain.RemediationOption, feasibility, maxAdj, maxExt float64) float64 {
	score := weightGapReduction*clampF(opt.Metric(domain.MetricGapReductionPct, 0)/100, 0, 1) +
		weightFeasibility*clampF(feasibility/100, 0, 1)

	monthlyTerm := 1.0
	if maxAdj > 0 {
		monthlyTerm = 1 - math.Abs(opt.Metric(domain.MetricMonthlyAdjustment, 0))/maxAdj
	}
	timeTerm := 1.0
	if maxExt > 0 {
		timeTerm = 1 - opt.Metric(domain.MetricTimeframeExtension, 0)/maxExt
	}
	return score + weightMonthlyCost*monthlyTerm + weightTimeCost*timeTerm
}

// indianScore discounts the composite to 70% and rewards options whose
// steps speak in family and domestic-product terms.
func indianScore(opt *domain.RemediationOption, composite float64) float64 {
	score := composite * 0.70
	familyHits, productHits := 0, 0
	for _, step := range opt.ImplementationSteps {
		text := step.Action + " " + step.Note
		if containsAny(text, familyKeywords) {
			familyHits++
		}
		if containsAny(text, indianProductKeywords) {
			productHits++
		}
	}
	score += math.Min(float64(familyHits)*0.05, 0.10)
	score += math.Min(float64(productHits)*0.03, 0.15)
	return score
}

// CompareRemediationStrategies ranks options on the weighted composite,
// builds the Indian-context ranking, writes the pairwise tradeoffs and the
// final recommendation, noting when the two rankings disagree.
func CompareRemediationStrategies(options []*domain.RemediationOption, goal *domain.Goal, profile *domain.Profile) *StrategyComparison {
	cmp := &StrategyComparison{}
	if len(options) == 0 {
		cmp.Recommendation = "No remediation options to compare"
		return cmp
	}

	maxAdj, maxExt := 0.0, 0.0
	for _, o := range options {
		maxAdj = math.Max(maxAdj, math.Abs(o.Metric(domain.MetricMonthlyAdjustment, 0)))
		maxExt = math.Max(maxExt, o.Metric(domain.MetricTimeframeExtension, 0))
	}

	for _, o := range options {
		feas := CalculateFeasibilityScore(o, profile)
		composite := compositeScore(o, feas, maxAdj, maxExt)
		cmp.Ranked = append(cmp.Ranked, ScoredOption{
			Option:         o,
			CompositeScore: composite,
			IndianScore:    indianScore(o, composite),
		})
	}

	sort.SliceStable(cmp.Ranked, func(i, j int) bool {
		return cmp.Ranked[i].CompositeScore > cmp.Ranked[j].CompositeScore
	})
	cmp.IndianRanked = append([]ScoredOption(nil), cmp.Ranked...)
	sort.SliceStable(cmp.IndianRanked, func(i, j int) bool {
		return cmp.IndianRanked[i].IndianScore > cmp.IndianRanked[j].IndianScore
	})

	cmp.Tradeoffs = pairwiseTradeoffs(cmp.Ranked)

	best := cmp.Ranked[0]
	indianBest := cmp.IndianRanked[0]
	cmp.Recommendation = fmt.Sprintf("%q scores highest overall (%.2f)", best.Option.Description, best.CompositeScore)
	if indianBest.Option != best.Option {
		cmp.DivergenceNote = fmt.Sprintf(
			"The Indian-context ranking prefers %q; it fits the household's family and product context better even though its raw score is lower",
			indianBest.Option.Description)
	}
	return cmp
}

// pairwiseTradeoffs writes one line per adjacent pair in the ranking.
func pairwiseTradeoffs(ranked []ScoredOption) []string {
	var out []string
	for i := 0; i+1 < len(ranked); i++ {
		a, b := ranked[i], ranked[i+1]
		gapA := a.Option.Metric(domain.MetricGapReductionPct, 0)
		gapB := b.Option.Metric(domain.MetricGapReductionPct, 0)
		switch {
		case gapA > gapB && a.Option.FeasibilityScore < b.Option.FeasibilityScore:
			out = append(out, fmt.Sprintf("%q closes more of the gap than %q but is harder to execute",
				a.Option.Description, b.Option.Description))
		case gapA < gapB:
			out = append(out, fmt.Sprintf("%q is easier to execute than %q but closes less of the gap",
				a.Option.Description, b.Option.Description))
		default:
			out = append(out, fmt.Sprintf("%q dominates %q on both gap closure and feasibility",
				a.Option.Description, b.Option.Description))
		}
	}
	return out
}

// RankOptions returns the options ordered best first on the composite
// score. The coordinator uses this to decide what to recommend.
func RankOptions(options []*domain.RemediationOption, goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) []*domain.RemediationOption {
	cmp := CompareRemediationStrategies(options, goal, profile)
	out := make([]*domain.RemediationOption, 0, len(cmp.Ranked))
	for _, s := range cmp.Ranked {
		out = append(out, s.Option)
	}
	return out
}
