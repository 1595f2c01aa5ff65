package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/niveshlabs/goalplan/internal/calculators"
	"github.com/niveshlabs/goalplan/internal/config"
	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/gap"
	"github.com/niveshlabs/goalplan/internal/impact"
	"github.com/niveshlabs/goalplan/internal/output"
	"github.com/niveshlabs/goalplan/internal/params"
	"github.com/niveshlabs/goalplan/internal/remediation"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var log = logrus.New()

// engine bundles everything a command needs for one run.
type engine struct {
	resolver *params.Resolver
	factory  *calculators.Factory
	analyzer *gap.Analyzer
	admin    params.Admin
	store    *params.SQLiteStore
}

func (e *engine) close() {
	if e.store != nil {
		e.store.Close()
	}
}

// newEngine builds the analysis stack. With --params, parameters come from
// (and persist to) a SQLite database; otherwise the built-in defaults serve.
func newEngine(cmd *cobra.Command) (*engine, error) {
	paramsPath, _ := cmd.Flags().GetString("params")

	var admin params.Admin
	var store *params.SQLiteStore
	if paramsPath != "" {
		s, err := params.OpenSQLite(paramsPath)
		if err != nil {
			return nil, err
		}
		admin, store = s, s
	} else {
		admin = params.NewMemoryStoreWithDefaults()
	}

	resolver := params.NewResolver(admin, log)
	factory := calculators.NewFactory(resolver, log)
	return &engine{
		resolver: resolver,
		factory:  factory,
		analyzer: gap.NewAnalyzer(factory, resolver, log),
		admin:    admin,
		store:    store,
	}, nil
}

func (e *engine) loadPlan(path string) (*config.Plan, error) {
	plan, err := config.NewPlanParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	// Plan-level parameter overrides apply as user-scoped values so they
	// never leak into another household's run against the same store.
	for p, v := range plan.Parameters {
		if err := e.admin.SetUser(plan.Profile.UserID, p, v); err != nil {
			return nil, fmt.Errorf("failed to apply parameter override %s: %w", p, err)
		}
	}
	log.WithFields(logrus.Fields{
		"goals":     len(plan.Goals),
		"user":      plan.Profile.UserID,
		"overrides": len(plan.Parameters),
	}).Debug("plan loaded")
	return plan, nil
}

var rootCmd = &cobra.Command{
	Use:   "goalplan",
	Short: "Goal gap analysis and remediation for Indian households",
	Long:  "Analyzes funding gaps across financial goals and proposes remediation strategies tuned to Indian market conventions",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [plan-file]",
	Short: "Analyze funding gaps for every goal in a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer eng.close()

		plan, err := eng.loadPlan(args[0])
		if err != nil {
			return err
		}

		analysis, err := eng.analyzer.AnalyzeOverallGap(plan.Goals, plan.Profile)
		if err != nil {
			return fmt.Errorf("gap analysis failed: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")
		return output.NewReportGenerator(nil).GenerateGapReport(analysis, format)
	},
}

var remediateCmd = &cobra.Command{
	Use:   "remediate [plan-file]",
	Short: "Generate remediation options for goals with funding gaps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer eng.close()

		plan, err := eng.loadPlan(args[0])
		if err != nil {
			return err
		}

		analysis, err := eng.analyzer.AnalyzeOverallGap(plan.Goals, plan.Profile)
		if err != nil {
			return fmt.Errorf("gap analysis failed: %w", err)
		}

		gaps := map[string]*domain.GapResult{}
		for i := range analysis.GoalGaps {
			gaps[analysis.GoalGaps[i].GoalID] = &analysis.GoalGaps[i]
		}

		minSeverity := domain.SeverityModerate
		if all, _ := cmd.Flags().GetBool("all"); all {
			minSeverity = domain.SeverityMinor
		}
		goalRef, _ := cmd.Flags().GetString("goal")

		coordinator := remediation.NewCoordinator(eng.resolver, eng.factory, log)
		var plans []*remediation.RemediationPlan
		for _, goal := range plan.Goals {
			if goalRef != "" && goal.ID != goalRef && goal.Title != goalRef {
				continue
			}
			g := gaps[goal.ID]
			if g == nil || !g.Severity.AtLeast(minSeverity) {
				continue
			}
			p, err := coordinator.GenerateOptions(goal, g, plan.Goals, gaps, plan.Profile)
			if err != nil {
				return fmt.Errorf("remediation for goal %q failed: %w", goal.Title, err)
			}
			plans = append(plans, p)
		}
		if len(plans) == 0 {
			fmt.Println("All goals are on track; nothing to remediate.")
			return nil
		}

		format, _ := cmd.Flags().GetString("format")
		return output.NewReportGenerator(nil).GenerateRemediationReport(plans, format)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare remediation strategies side by side for one goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer eng.close()

		plan, err := eng.loadPlan(args[0])
		if err != nil {
			return err
		}

		goalRef, _ := cmd.Flags().GetString("goal")
		var target *domain.Goal
		for _, g := range plan.Goals {
			if g.ID == goalRef || g.Title == goalRef {
				target = g
				break
			}
		}
		if target == nil {
			return fmt.Errorf("goal %q not found in plan", goalRef)
		}

		analysis, err := eng.analyzer.AnalyzeOverallGap(plan.Goals, plan.Profile)
		if err != nil {
			return fmt.Errorf("gap analysis failed: %w", err)
		}
		gaps := map[string]*domain.GapResult{}
		for i := range analysis.GoalGaps {
			gaps[analysis.GoalGaps[i].GoalID] = &analysis.GoalGaps[i]
		}
		targetGap := gaps[target.ID]
		if targetGap == nil {
			return fmt.Errorf("no gap result for goal %q", goalRef)
		}

		coordinator := remediation.NewCoordinator(eng.resolver, eng.factory, log)
		remPlan, err := coordinator.GenerateOptions(target, targetGap, plan.Goals, gaps, plan.Profile)
		if err != nil {
			return fmt.Errorf("remediation for goal %q failed: %w", goalRef, err)
		}

		cmp := impact.CompareRemediationStrategies(remPlan.Options, target, plan.Profile)
		format, _ := cmd.Flags().GetString("format")
		return output.NewReportGenerator(nil).GenerateComparisonReport(cmp, format)
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "goalplan %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("params", "", "Path to a SQLite parameter database (built-in defaults if omitted)")

	analyzeCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	remediateCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	remediateCmd.Flags().Bool("all", false, "Remediate every goal with a gap, MINOR included")
	remediateCmd.Flags().String("goal", "", "Only remediate the goal with this ID or title")
	compareCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	compareCmd.Flags().String("goal", "", "Goal ID or title to compare strategies for (required)")
	compareCmd.MarkFlagRequired("goal")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(remediateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
