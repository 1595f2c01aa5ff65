package impact

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/niveshlabs/goalplan/internal/domain"
	"github.com/niveshlabs/goalplan/internal/finmath"
)

// Variable names a gap-analysis input to sweep, with its base value and the
// low and high test points.
type Variable struct {
	Name string  `json:"name"` // return_rate, contribution, inflation, timeframe
	Base float64 `json:"base"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// VariableResult reports how the gap moves when one variable is swept.
type VariableResult struct {
	Name          string   `json:"name"`
	LowGap        float64  `json:"low_gap"`
	HighGap       float64  `json:"high_gap"`
	LowChangePct  float64  `json:"low_change_pct"`
	HighChangePct float64  `json:"high_change_pct"`
	MeanAbsChange float64  `json:"mean_abs_change"`
	// Threshold is the interpolated variable value at which the gap
	// crosses zero, when the low and high sweeps straddle it.
	Threshold *float64 `json:"threshold,omitempty"`
}

// SensitivityReport ranks swept variables by how hard they move the gap.
type SensitivityReport struct {
	BaseGap float64          `json:"base_gap"`
	Results []VariableResult `json:"results"`
}

// sweepAssumedReturn is the annual return used when the swept variable is
// not the return rate itself.
var sweepAssumedReturn = decimal.NewFromFloat(0.08)

// modifiedGap recomputes the gap amount with one variable replaced. Each
// variable has its own simplified transform; these are deliberately cruder
// than the full analyzer so a sweep stays cheap.
func modifiedGap(gap *domain.GapResult, v Variable, value float64) float64 {
	months := gap.TimeframeMonths
	switch v.Name {
	case "return_rate":
		fv := finmath.FutureValue(gap.CurrentAmount, gap.AvailableMonthly, months, decimal.NewFromFloat(value))
		return gap.TargetAmount.Sub(fv).InexactFloat64()
	case "contribution":
		fv := finmath.FutureValue(gap.CurrentAmount, decimal.NewFromFloat(value), months, sweepAssumedReturn)
		return gap.TargetAmount.Sub(fv).InexactFloat64()
	case "inflation":
		years := float64(months) / 12
		scale := math.Pow((1+value)/(1+v.Base), years)
		return gap.GapAmount.InexactFloat64() * scale
	case "timeframe":
		m := int(math.Round(value))
		if m < 1 {
			m = 1
		}
		fv := finmath.FutureValue(gap.CurrentAmount, gap.AvailableMonthly, m, sweepAssumedReturn)
		return gap.TargetAmount.Sub(fv).InexactFloat64()
	default:
		return gap.GapAmount.InexactFloat64()
	}
}

// PerformSensitivityAnalysis sweeps each variable to its low and high test
// values, reports the percentage change in the gap, ranks variables by mean
// absolute change and interpolates the zero-crossing threshold where the
// sweep straddles a fully funded goal.
func PerformSensitivityAnalysis(gap *domain.GapResult, vars []Variable) *SensitivityReport {
	base := gap.GapAmount.InexactFloat64()
	report := &SensitivityReport{BaseGap: base}

	for _, v := range vars {
		low := modifiedGap(gap, v, v.Low)
		high := modifiedGap(gap, v, v.High)

		pct := func(g float64) float64 {
			if base == 0 {
				return 0
			}
			return (g - base) / math.Abs(base) * 100
		}
		res := VariableResult{
			Name:          v.Name,
			LowGap:        low,
			HighGap:       high,
			LowChangePct:  pct(low),
			HighChangePct: pct(high),
			MeanAbsChange: (math.Abs(pct(low)) + math.Abs(pct(high))) / 2,
		}

		if (low > 0) != (high > 0) && high != low {
			t := v.Low + (0-low)*(v.High-v.Low)/(high-low)
			res.Threshold = &t
		}

		report.Results = append(report.Results, res)
	}

	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].MeanAbsChange > report.Results[j].MeanAbsChange
	})
	return report
}
