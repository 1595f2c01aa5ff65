// Package config parses and validates plan input files.
package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// Plan is the top-level input document: one household profile, its goals
// and optional per-run parameter overrides applied as user-level values.
type Plan struct {
	Profile    *domain.Profile    `yaml:"profile" json:"profile"`
	Goals      []*domain.Goal     `yaml:"goals" json:"goals"`
	Parameters map[string]float64 `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// PlanParser handles parsing of plan input files.
type PlanParser struct{}

// NewPlanParser creates a new plan parser.
func NewPlanParser() *PlanParser {
	return &PlanParser{}
}

// LoadFromFile loads a plan from a YAML or JSON file. YAML is a superset of
// JSON here, so a single unmarshal path covers both.
func (pp *PlanParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return pp.Parse(data)
}

// Parse unmarshals and validates a plan document.
func (pp *PlanParser) Parse(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := pp.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	pp.assignIdentifiers(&plan)
	return &plan, nil
}

// ValidatePlan checks structural requirements. Missing financial data is
// not an error; the analyzer degrades it to documented defaults. Only
// contradictions that make analysis meaningless are rejected.
func (pp *PlanParser) ValidatePlan(plan *Plan) error {
	if plan.Profile == nil {
		return fmt.Errorf("profile is required")
	}
	if len(plan.Goals) == 0 {
		return fmt.Errorf("no goals provided")
	}
	for i, goal := range plan.Goals {
		if err := pp.validateGoal(i, goal); err != nil {
			return fmt.Errorf("goal %d validation failed: %w", i, err)
		}
	}
	if plan.Profile.MonthlyIncome != nil && plan.Profile.MonthlyIncome.Amount.IsNegative() {
		return fmt.Errorf("monthly income cannot be negative")
	}
	if plan.Profile.MonthlyExpenses != nil && plan.Profile.MonthlyExpenses.Amount.IsNegative() {
		return fmt.Errorf("monthly expenses cannot be negative")
	}
	return nil
}

// validateGoal checks one goal entry. Unknown categories pass; the
// calculator factory resolves them to the generic calculator.
func (pp *PlanParser) validateGoal(index int, goal *domain.Goal) error {
	if goal == nil {
		return fmt.Errorf("goal entry is empty")
	}
	if goal.Title == "" {
		return fmt.Errorf("title is required")
	}
	if goal.Category == "" {
		return fmt.Errorf("category is required")
	}
	if goal.TargetAmount.IsNegative() {
		return fmt.Errorf("target amount cannot be negative")
	}
	if goal.CurrentAmount.IsNegative() {
		return fmt.Errorf("current amount cannot be negative")
	}
	if goal.MonthlyContribution.IsNegative() {
		return fmt.Errorf("monthly contribution cannot be negative")
	}
	if goal.TimeframeMonths < 0 {
		return fmt.Errorf("timeframe months cannot be negative")
	}
	return nil
}

// assignIdentifiers fills in any missing IDs so downstream maps keyed by
// goal ID stay unambiguous.
func (pp *PlanParser) assignIdentifiers(plan *Plan) {
	if plan.Profile.UserID == "" {
		plan.Profile.UserID = uuid.NewString()
	}
	for _, goal := range plan.Goals {
		if goal.ID == "" {
			goal.ID = uuid.NewString()
		}
	}
}
