package domain

import "math"

// Allocation is an asset allocation across the four classes used for Indian
// retail portfolios. Shares are 0-1 fractions and are expected to sum to 1.
type Allocation struct {
	Equity float64 `yaml:"equity" json:"equity"`
	Debt   float64 `yaml:"debt" json:"debt"`
	Gold   float64 `yaml:"gold" json:"gold"`
	Cash   float64 `yaml:"cash" json:"cash"`
}

// Sum returns the total of all shares.
func (a Allocation) Sum() float64 {
	return a.Equity + a.Debt + a.Gold + a.Cash
}

// Normalize scales the shares so they sum to exactly 1.0. A zero allocation
// normalizes to all cash rather than dividing by zero.
func (a Allocation) Normalize() Allocation {
	total := a.Sum()
	if total <= 0 {
		return Allocation{Cash: 1}
	}
	return Allocation{
		Equity: a.Equity / total,
		Debt:   a.Debt / total,
		Gold:   a.Gold / total,
		Cash:   a.Cash / total,
	}
}

// L1Distance is the sum of absolute per-class differences between two
// allocations.
func (a Allocation) L1Distance(b Allocation) float64 {
	return math.Abs(a.Equity-b.Equity) +
		math.Abs(a.Debt-b.Debt) +
		math.Abs(a.Gold-b.Gold) +
		math.Abs(a.Cash-b.Cash)
}

// AsMap returns the allocation as the plain map shape used across API
// boundaries.
func (a Allocation) AsMap() map[string]float64 {
	return map[string]float64{
		"equity": a.Equity,
		"debt":   a.Debt,
		"gold":   a.Gold,
		"cash":   a.Cash,
	}
}
