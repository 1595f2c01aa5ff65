// Package output renders gap analyses and remediation plans for the
// console and as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/impact"
	"github.com/niveshlabs/goalplan/internal/remediation"
)

// ReportGenerator renders analysis results in various formats.
type ReportGenerator struct {
	w io.Writer
}

// NewReportGenerator creates a generator writing to w, defaulting to
// standard output.
func NewReportGenerator(w io.Writer) *ReportGenerator {
	if w == nil {
		w = os.Stdout
	}
	return &ReportGenerator{w: w}
}

// GenerateGapReport renders an overall gap analysis in the given format.
func (rg *ReportGenerator) GenerateGapReport(analysis *domain.OverallGapAnalysis, format string) error {
	switch format {
	case "console":
		return rg.gapConsole(analysis)
	case "json":
		return rg.asJSON(analysis)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// GenerateRemediationReport renders per-goal remediation plans.
func (rg *ReportGenerator) GenerateRemediationReport(plans []*remediation.RemediationPlan, format string) error {
	switch format {
	case "console":
		return rg.remediationConsole(plans)
	case "json":
		return rg.asJSON(plans)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// GenerateComparisonReport renders a strategy comparison.
func (rg *ReportGenerator) GenerateComparisonReport(cmp *impact.StrategyComparison, format string) error {
	switch format {
	case "console":
		return rg.comparisonConsole(cmp)
	case "json":
		return rg.asJSON(cmp)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (rg *ReportGenerator) asJSON(v any) error {
	enc := json.NewEncoder(rg.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (rg *ReportGenerator) banner(title string) {
	fmt.Fprintln(rg.w, strings.Repeat("=", 72))
	fmt.Fprintln(rg.w, title)
	fmt.Fprintln(rg.w, strings.Repeat("=", 72))
	fmt.Fprintln(rg.w)
}

func (rg *ReportGenerator) gapConsole(analysis *domain.OverallGapAnalysis) error {
	rg.banner("GOAL GAP ANALYSIS")

	for i, gap := range analysis.GoalGaps {
		fmt.Fprintf(rg.w, "GOAL %d: %s [%s]\n", i+1, gap.GoalTitle, gap.Severity)
		fmt.Fprintln(rg.w, strings.Repeat("-", 50))
		fmt.Fprintf(rg.w, "  Target:            %s\n", FormatRupees(gap.TargetAmount))
		fmt.Fprintf(rg.w, "  Saved so far:      %s\n", FormatRupees(gap.CurrentAmount))
		fmt.Fprintf(rg.w, "  Gap:               %s (%.1f%%)\n", FormatRupees(gap.GapAmount), gap.GapPercentage)
		fmt.Fprintf(rg.w, "  Required monthly:  %s\n", FormatRupees(gap.RequiredMonthly))
		fmt.Fprintf(rg.w, "  Available monthly: %s\n", FormatRupees(gap.AvailableMonthly))
		if gap.TimeframeGapMonths > 0 {
			fmt.Fprintf(rg.w, "  Timeframe gap:     %d months\n", gap.TimeframeGapMonths)
		}
		fmt.Fprintf(rg.w, "  %s\n", gap.Description)
		for key, advice := range gap.RecommendedAdjustments {
			fmt.Fprintf(rg.w, "  - %s: %s\n", key, advice)
		}
		for _, note := range gap.FallbackNotes {
			fmt.Fprintf(rg.w, "  note: %s\n", note)
		}
		fmt.Fprintln(rg.w)
	}

	fmt.Fprintln(rg.w, "HOUSEHOLD SUMMARY")
	fmt.Fprintln(rg.w, strings.Repeat("-", 50))
	fmt.Fprintf(rg.w, "  Total gap:              %s\n", FormatRupees(analysis.TotalGapAmount))
	fmt.Fprintf(rg.w, "  Total required monthly: %s\n", FormatRupees(analysis.TotalRequiredMonthly))
	fmt.Fprintf(rg.w, "  Assessment:             %s\n", analysis.OverallAssessment)
	for _, c := range analysis.ResourceConflicts {
		fmt.Fprintf(rg.w, "  conflict: %s and %s together need %s/month\n",
			c.GoalA, c.GoalB, FormatRupees(c.CombinedRequired))
	}
	return nil
}

func (rg *ReportGenerator) remediationConsole(plans []*remediation.RemediationPlan) error {
	rg.banner("REMEDIATION OPTIONS")

	for _, plan := range plans {
		fmt.Fprintf(rg.w, "GOAL: %s [%s]\n", plan.GoalTitle, plan.Severity)
		fmt.Fprintln(rg.w, strings.Repeat("-", 50))
		for i, opt := range plan.Options {
			marker := " "
			if opt.Description == plan.Recommended {
				marker = "*"
			}
			fmt.Fprintf(rg.w, "%s %d. %s (feasibility %.0f/100)\n", marker, i+1, opt.Description, opt.FeasibilityScore)
			if v, ok := opt.ImpactMetrics[domain.MetricGapReductionPct]; ok && v > 0 {
				fmt.Fprintf(rg.w, "     closes about %.0f%% of the gap\n", v)
			}
			for _, step := range opt.ImplementationSteps {
				if step.Note != "" {
					fmt.Fprintf(rg.w, "     - %s (%s)\n", step.Action, step.Note)
				} else {
					fmt.Fprintf(rg.w, "     - %s\n", step.Action)
				}
			}
		}
		if plan.Recommended != "" {
			fmt.Fprintf(rg.w, "  recommended: %s\n", plan.Recommended)
		}
		fmt.Fprintln(rg.w)
	}
	return nil
}

func (rg *ReportGenerator) comparisonConsole(cmp *impact.StrategyComparison) error {
	rg.banner("STRATEGY COMPARISON")

	for i, s := range cmp.Ranked {
		fmt.Fprintf(rg.w, "%d. %s  score %.2f  (Indian-context %.2f)\n",
			i+1, s.Option.Description, s.CompositeScore, s.IndianScore)
	}
	fmt.Fprintln(rg.w)
	for _, tradeoff := range cmp.Tradeoffs {
		fmt.Fprintf(rg.w, "  %s\n", tradeoff)
	}
	fmt.Fprintln(rg.w)
	fmt.Fprintf(rg.w, "  %s\n", cmp.Recommendation)
	if cmp.DivergenceNote != "" {
		fmt.Fprintf(rg.w, "  %s\n", cmp.DivergenceNote)
	}
	return nil
}
