package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshlabs/goalplan/internal/domain"
)

const validPlanYAML = `
profile:
  user_id: u-42
  age: 31
  monthly_income:
    amount: 120000
  monthly_expenses:
    amount: 80000
  risk_tolerance: moderate
  family:
    joint_family: true
    dependents: 2
goals:
  - title: Emergency fund
    category: emergency_fund
    current_amount: 50000
    timeframe_months: 12
  - id: g-wedding
    title: Wedding
    category: wedding
    target_amount: 1500000
    current_amount: 300000
    monthly_contribution: 10000
    timeframe_months: 30
    flexibility: somewhat_flexible
`

func TestParseValidPlan(t *testing.T) {
	plan, err := NewPlanParser().Parse([]byte(validPlanYAML))
	require.NoError(t, err)

	assert.Equal(t, "u-42", plan.Profile.UserID)
	assert.True(t, plan.Profile.Family.JointFamily)
	assert.True(t, plan.Profile.MonthlyIncome.Amount.Equal(decimal.NewFromInt(120000)))

	require.Len(t, plan.Goals, 2)
	assert.Equal(t, domain.CategoryEmergencyFund, plan.Goals[0].Category)
	assert.NotEmpty(t, plan.Goals[0].ID, "missing goal IDs must be assigned")
	assert.Equal(t, "g-wedding", plan.Goals[1].ID, "explicit IDs survive parsing")
	assert.Equal(t, domain.FlexibilitySomewhat, plan.Goals[1].Flexibility)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validPlanYAML), 0o644))

	plan, err := NewPlanParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, plan.Goals, 2)

	_, err = NewPlanParser().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing profile",
			yaml: "goals:\n  - title: X\n    category: custom\n",
			want: "profile is required",
		},
		{
			name: "no goals",
			yaml: "profile:\n  user_id: u1\n",
			want: "no goals provided",
		},
		{
			name: "goal without title",
			yaml: validPlanYAML + "  - category: custom\n",
			want: "title is required",
		},
		{
			name: "goal without category",
			yaml: validPlanYAML + "  - title: Something\n",
			want: "category is required",
		},
		{
			name: "negative target",
			yaml: validPlanYAML + "  - title: Bad\n    category: custom\n    target_amount: -5\n",
			want: "target amount cannot be negative",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlanParser().Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestPlanParameterOverrides(t *testing.T) {
	yaml := validPlanYAML + `
parameters:
  returns.assumed_annual: 0.11
  inflation.education: 0.09
`
	plan, err := NewPlanParser().Parse([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, 0.11, plan.Parameters["returns.assumed_annual"])
	assert.Equal(t, 0.09, plan.Parameters["inflation.education"])
}

func TestUnknownCategoryIsAccepted(t *testing.T) {
	yaml := `
profile:
  user_id: u1
goals:
  - title: Space tourism
    category: moonshot
`
	plan, err := NewPlanParser().Parse([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, domain.Category("moonshot"), plan.Goals[0].Category)
}

func TestMalformedYAML(t *testing.T) {
	_, err := NewPlanParser().Parse([]byte("profile: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
