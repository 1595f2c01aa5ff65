package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupees renders an amount with Indian digit grouping: the last three
// digits form one group, everything before that groups in twos. Paise are
// dropped; plan-level amounts are whole rupees.
func FormatRupees(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	digits := amount.Abs().Round(0).String()

	var groups []string
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		groups = append(groups, digits[len(digits)-3:])
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
	} else {
		groups = []string{digits}
	}

	out := "₹" + strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}
