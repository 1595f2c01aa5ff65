package params

// Defaults returns the built-in parameter values seeded into new stores.
// Rates are annual fractions; amounts are rupees.
func Defaults() map[string]float64 {
	return map[string]float64{
		"inflation.general":   0.06,
		"inflation.education": 0.08,
		"inflation.medical":   0.09,
		"inflation.wedding":   0.07,

		"returns.assumed_annual": 0.08,
		"returns.equity":         0.12,
		"returns.debt":           0.07,
		"returns.gold":           0.08,
		"returns.cash":           0.035,

		"retirement.age":                   60,
		"retirement.life_expectancy":       85,
		"retirement.safe_withdrawal_rate":  0.04,
		"retirement.expense_ratio":         0.70,
		"early_retirement.age":             45,
		"early_retirement.corpus_multiple": 30,

		"emergency_fund.months_of_expenses": 6,

		"education.base_cost.school":        800000,
		"education.base_cost.undergraduate": 1200000,
		"education.base_cost.postgraduate":  2000000,
		"education.base_cost.abroad":        5000000,

		"home.down_payment_percent": 0.20,
		"wedding.cost_per_guest":    2500,
		"wedding.base_cost":         500000,

		"tax.sections.80c.limit":   150000,
		"tax.sections.80d.limit":   25000,
		"tax.sections.nps.limit":   50000,

		"allocation.gold_min":  0.05,
		"allocation.debt_min":  0.05,
		"allocation.cash_min":  0.02,
		"allocation.equity_max": 0.85,
	}
}
