package impact

import (
	"math"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// DifficultyAssessment breaks implementation difficulty into five axes,
// each scored 0-5, plus the weighted overall score and a timeline estimate.
type DifficultyAssessment struct {
	TimeRequired       float64 `json:"time_required"`
	KnowledgeRequired  float64 `json:"knowledge_required"`
	EffortRequired     float64 `json:"effort_required"`
	ExternalDependency float64 `json:"external_dependency"`
	MarketComplexity   float64 `json:"market_complexity"`
	Overall            float64 `json:"overall"`
	Label              string  `json:"label"`
	TimelineMonths     int     `json:"timeline_months"`
}

// difficultyWeights combine the five axes into the overall score.
var difficultyWeights = map[string]float64{
	"time":      0.20,
	"knowledge": 0.25,
	"effort":    0.25,
	"external":  0.15,
	"market":    0.15,
}

var difficultyKeywords = map[string][]string{
	"time":      {"review", "monitor", "quarterly", "every", "transition", "staged", "months"},
	"knowledge": {"allocation", "rebalance", "elss", "index", "tax", "80c", "stp", "interest", "deduction"},
	"effort":    {"negotiat", "discuss", "coordinate", "restructure", "switch", "agree", "revise"},
	"external":  {"family", "elders", "spouse", "employer", "bank", "loan", "scholarship", "advisor"},
	"market":    {"ppf", "nps", "sgb", "sovereign", "sukanya", "fd", "sip", "folio", "gold"},
}

// axisScore counts keyword hits across steps, saturating at 5.
func axisScore(steps []domain.ImplementationStep, keywords []string) float64 {
	hits := 0
	for _, step := range steps {
		text := step.Action + " " + step.Note
		for _, k := range keywords {
			if containsAny(text, []string{k}) {
				hits++
			}
		}
	}
	return math.Min(float64(hits), 5)
}

// EstimateImplementationDifficulty scores one option across the five axes
// and derives the label and a rough implementation timeline in months.
func EstimateImplementationDifficulty(opt *domain.RemediationOption) *DifficultyAssessment {
	steps := opt.ImplementationSteps
	d := &DifficultyAssessment{
		TimeRequired:       axisScore(steps, difficultyKeywords["time"]),
		KnowledgeRequired:  axisScore(steps, difficultyKeywords["knowledge"]),
		EffortRequired:     axisScore(steps, difficultyKeywords["effort"]),
		ExternalDependency: axisScore(steps, difficultyKeywords["external"]),
		MarketComplexity:   axisScore(steps, difficultyKeywords["market"]),
	}
	d.Overall = d.TimeRequired*difficultyWeights["time"] +
		d.KnowledgeRequired*difficultyWeights["knowledge"] +
		d.EffortRequired*difficultyWeights["effort"] +
		d.ExternalDependency*difficultyWeights["external"] +
		d.MarketComplexity*difficultyWeights["market"]

	switch {
	case d.Overall < 1:
		d.Label = "Easy"
	case d.Overall < 2:
		d.Label = "Straightforward"
	case d.Overall < 3:
		d.Label = "Moderate"
	case d.Overall < 4:
		d.Label = "Difficult"
	default:
		d.Label = "Very Difficult"
	}

	d.TimelineMonths = 1 + int(math.Ceil(d.Overall))
	return d
}
