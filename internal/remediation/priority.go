package remediation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/calculators"
	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/params"
)

// PriorityStrategy reorders goals so the household's capacity flows to the
// goals that need it most. It never demotes a critical-category goal.
type PriorityStrategy struct {
	resolver *params.Resolver
	factory  *calculators.Factory
	log      *logrus.Logger
	now      func() time.Time
}

// NewPriorityStrategy creates the strategy.
func NewPriorityStrategy(resolver *params.Resolver, factory *calculators.Factory, log *logrus.Logger) *PriorityStrategy {
	return &PriorityStrategy{resolver: resolver, factory: factory, log: log, now: time.Now}
}

// severityPenalty is the fractional haircut applied to a goal's base score,
// proportional to how badly its gap has deteriorated. A goal whose current
// plan is failing concedes rank so capacity is not poured into a losing
// position; critical categories are exempted in Score.
func severityPenalty(sev domain.Severity) float64 {
	switch sev {
	case domain.SeverityCritical:
		return 0.30
	case domain.SeveritySignificant:
		return 0.20
	case domain.SeverityModerate:
		return 0.10
	default:
		return 0
	}
}

// Score computes the adjusted priority: the calculator's base score, cut by
// the severity penalty (critical categories are exempt from the cut) and
// lifted by the cultural weight of the goal.
func (s *PriorityStrategy) Score(goal *domain.Goal, gap *domain.GapResult, profile *domain.Profile) float64 {
	base := 50.0
	if calc, err := s.factory.ForCategory(goal.Category); err == nil {
		base = calc.PriorityScore(goal, profile)
	}

	penalty := severityPenalty(gap.Severity)
	if goal.Category.IsCritical() {
		penalty = 0
	}
	score := base * (1 - penalty) * CulturalFactor(ClassifyCultural(goal))
	return clamp(score, 0, 100)
}

// RankedGoal pairs a goal with its adjusted score and old/new positions.
type RankedGoal struct {
	Goal    *domain.Goal `json:"-"`
	GoalID  string       `json:"goal_id"`
	Title   string       `json:"title"`
	Score   float64      `json:"score"`
	OldRank int          `json:"old_rank"`
	NewRank int          `json:"new_rank"`
	Pinned  bool         `json:"pinned"`
}

// Reprioritize orders goals by adjusted score, descending. Critical-category
// goals are pinned to the top of the order regardless of score, preserving
// their relative order among themselves.
func (s *PriorityStrategy) Reprioritize(goals []*domain.Goal, gaps map[string]*domain.GapResult, profile *domain.Profile) []RankedGoal {
	ranked := make([]RankedGoal, 0, len(goals))
	for i, g := range goals {
		gap := gaps[g.ID]
		if gap == nil {
			gap = &domain.GapResult{Severity: domain.SeverityMinor}
		}
		ranked = append(ranked, RankedGoal{
			Goal:    g,
			GoalID:  g.ID,
			Title:   g.Title,
			Score:   s.Score(g, gap, profile),
			OldRank: i + 1,
			Pinned:  g.Category.IsCritical(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Pinned != ranked[j].Pinned {
			return ranked[i].Pinned
		}
		if ranked[i].Pinned && ranked[j].Pinned {
			return ranked[i].OldRank < ranked[j].OldRank
		}
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].NewRank = i + 1
	}
	return ranked
}

// DeferrableGoal names a goal that can wait, with the reason why.
type DeferrableGoal struct {
	GoalID    string `json:"goal_id"`
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
}

// IdentifyDeferrableGoals lists the goals safe to push out: never a
// critical category, never a fixed-date or near-term goal, never a
// culturally delay-sensitive goal inside its sensitive window.
func (s *PriorityStrategy) IdentifyDeferrableGoals(goals []*domain.Goal, gaps map[string]*domain.GapResult, profile *domain.Profile) []DeferrableGoal {
	now := s.now()
	var out []DeferrableGoal
	for _, g := range goals {
		if g.Category.IsCritical() || g.Flexibility == domain.FlexibilityFixed {
			continue
		}
		if g.RemainingMonths(now) <= 12 {
			continue
		}
		if IsDelaySensitive(g) {
			continue
		}
		gap := gaps[g.ID]
		var rationale string
		switch {
		case gap != nil && gap.Severity == domain.SeverityMinor:
			rationale = "Goal is nearly on track; pausing contributions briefly will not endanger it"
		case g.Importance == domain.ImportanceLow:
			rationale = "Stated importance is low and the category is discretionary"
		case g.Flexibility == domain.FlexibilityVery:
			rationale = "Goal is fully flexible on both amount and date"
		default:
			continue
		}
		out = append(out, DeferrableGoal{GoalID: g.ID, Title: g.Title, Rationale: rationale})
	}
	return out
}

// StagedBucket holds one horizon tier of the staged plan.
type StagedBucket struct {
	Name            string   `json:"name"`
	GoalIDs         []string `json:"goal_ids"`
	AllocationShare float64  `json:"allocation_share"`
}

// StagedPriorityPlan spreads capacity across three horizon tiers with a
// review cadence for moving goals between them.
type StagedPriorityPlan struct {
	Immediate          StagedBucket `json:"immediate"`
	Mid                StagedBucket `json:"mid"`
	Long               StagedBucket `json:"long"`
	ReviewAfterMonths  int          `json:"review_after_months"`
	PendingTransitions []string     `json:"pending_transitions"`
}

// CreateStagedPriorityPlan buckets goals by horizon. Critical goals and
// anything due inside a year go to the immediate tier; the mid tier takes
// goals inside three years as well as non-deferrable goals beyond that; the
// rest go to long. Capacity shares are proportional to required monthly
// amounts, clamped so the immediate tier gets 40-80% and the mid tier
// 15-50%.
func (s *PriorityStrategy) CreateStagedPriorityPlan(goals []*domain.Goal, gaps map[string]*domain.GapResult, profile *domain.Profile) *StagedPriorityPlan {
	deferrable := map[string]bool{}
	for _, d := range s.IdentifyDeferrableGoals(goals, gaps, profile) {
		deferrable[d.GoalID] = true
	}

	now := s.now()
	plan := &StagedPriorityPlan{
		Immediate:         StagedBucket{Name: "immediate"},
		Mid:               StagedBucket{Name: "mid"},
		Long:              StagedBucket{Name: "long"},
		ReviewAfterMonths: 6,
	}

	required := map[string]decimal.Decimal{}
	tierRequired := map[string]decimal.Decimal{
		"immediate": decimal.Zero, "mid": decimal.Zero, "long": decimal.Zero,
	}
	total := decimal.Zero
	for _, g := range goals {
		months := g.RemainingMonths(now)
		var bucket *StagedBucket
		switch {
		case g.Category.IsCritical() || months <= 12:
			bucket = &plan.Immediate
		case months <= 36 || !deferrable[g.ID]:
			bucket = &plan.Mid
		default:
			bucket = &plan.Long
		}
		bucket.GoalIDs = append(bucket.GoalIDs, g.ID)

		req := decimal.Zero
		if gap := gaps[g.ID]; gap != nil {
			req = gap.RequiredMonthly
		}
		required[g.ID] = req
		tierRequired[bucket.Name] = tierRequired[bucket.Name].Add(req)
		total = total.Add(req)

		if months <= 18 && bucket.Name != "immediate" {
			plan.PendingTransitions = append(plan.PendingTransitions,
				fmt.Sprintf("%s moves to the immediate tier within %d months", g.Title, months-12))
		}
	}

	share := func(name string) float64 {
		if !total.IsPositive() {
			return 0
		}
		return tierRequired[name].Div(total).InexactFloat64()
	}
	plan.Immediate.AllocationShare = clamp(share("immediate"), 0.40, 0.80)
	plan.Mid.AllocationShare = clamp(share("mid"), 0.15, 0.50)
	plan.Long.AllocationShare = clamp(1-plan.Immediate.AllocationShare-plan.Mid.AllocationShare, 0, 1)
	return plan
}

// BuildOption wraps a priority shift for one struggling goal into a
// remediation option.
func (s *PriorityStrategy) BuildOption(goal *domain.Goal, gap *domain.GapResult, allGoals []*domain.Goal, gaps map[string]*domain.GapResult, profile *domain.Profile) *domain.RemediationOption {
	ranked := s.Reprioritize(allGoals, gaps, profile)
	var shift float64
	for _, r := range ranked {
		if r.GoalID == goal.ID {
			shift = float64(r.OldRank - r.NewRank)
			break
		}
	}

	deferrable := s.IdentifyDeferrableGoals(allGoals, gaps, profile)
	freed := decimal.Zero
	steps := []domain.ImplementationStep{
		{Action: "Adopt the reordered goal priorities"},
	}
	for _, d := range deferrable {
		if d.GoalID == goal.ID {
			continue
		}
		if g := gaps[d.GoalID]; g != nil {
			freed = freed.Add(g.AvailableMonthly)
		}
		steps = append(steps, domain.ImplementationStep{
			Action: fmt.Sprintf("Defer contributions to %q", d.Title),
			Note:   d.Rationale,
		})
	}
	steps = append(steps, domain.ImplementationStep{
		Action: "Review tier assignments every 6 months",
	})

	gapReduction := 0.0
	if gap.GapAmount.IsPositive() && freed.IsPositive() {
		months := decimal.NewFromInt(int64(gap.TimeframeMonths))
		gapReduction = clamp(freed.Mul(months).Div(gap.GapAmount).InexactFloat64()*100, 0, 100)
	}

	feasibility := 70.0
	if len(deferrable) == 0 {
		feasibility = 35
	}

	return &domain.RemediationOption{
		Description:      "Shift Goal Priorities",
		FeasibilityScore: feasibility,
		ImpactMetrics: map[string]float64{
			domain.MetricGapReductionPct:   gapReduction,
			domain.MetricPriorityShift:     shift,
			domain.MetricMonthlyAdjustment: freed.InexactFloat64(),
		},
		ImplementationSteps: steps,
	}
}
