package params

// legacyAliases maps current dotted paths to the flat names used before the
// parameter table was restructured. Resolution tries aliases in both
// directions so callers holding either form find the stored value.
var legacyAliases = map[string]string{
	"retirement.life_expectancy":        "life_expectancy",
	"retirement.age":                    "retirement_age",
	"retirement.safe_withdrawal_rate":   "safe_withdrawal_rate",
	"inflation.general":                 "inflation_rate",
	"inflation.education":               "education_inflation",
	"inflation.medical":                 "medical_inflation",
	"returns.assumed_annual":            "expected_annual_return",
	"returns.equity":                    "equity_return",
	"returns.debt":                      "debt_return",
	"emergency_fund.months_of_expenses": "emergency_fund_months",
	"tax.sections.80c.limit":            "section_80c_limit",
	"home.down_payment_percent":         "down_payment_percent",
}

var reverseAliases = func() map[string]string {
	m := make(map[string]string, len(legacyAliases))
	for k, v := range legacyAliases {
		m[v] = k
	}
	return m
}()

// Aliases returns the alternate key(s) to try when path itself misses.
func Aliases(path string) []string {
	var out []string
	if alias, ok := legacyAliases[path]; ok {
		out = append(out, alias)
	}
	if alias, ok := reverseAliases[path]; ok {
		out = append(out, alias)
	}
	return out
}
