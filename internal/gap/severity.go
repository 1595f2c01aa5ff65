package gap

import "github.com/niveshlabs/goalplan/internal/domain"

// Severity cutpoints. These are policy constants, not derived figures; the
// only hard requirement is that classification stays monotone in both gap
// percentage and capacity gap percentage.
const (
	criticalGapPct      = 50.0
	criticalCapacityPct = 60.0

	significantGapPct      = 30.0
	significantCapacityPct = 35.0

	minorGapPct          = 10.0
	minorTimeframeMonths = 3
)

// classifySeverity buckets a gap by how far off-track the goal is:
//
//	CRITICAL    gap > 50% of target, or the capacity shortfall exceeds 60%
//	            of monthly income
//	SIGNIFICANT gap > 30% or capacity shortfall > 35% of income
//	MINOR       gap < 10% and at most 3 months behind schedule
//	MODERATE    everything else
//
// Raising gapPct or capacityGapPct with the other inputs fixed can never
// lower the returned severity.
func classifySeverity(gapPct, capacityGapPct float64, timeframeGapMonths int) domain.Severity {
	switch {
	case gapPct > criticalGapPct || capacityGapPct > criticalCapacityPct:
		return domain.SeverityCritical
	case gapPct > significantGapPct || capacityGapPct > significantCapacityPct:
		return domain.SeveritySignificant
	case gapPct < minorGapPct && timeframeGapMonths <= minorTimeframeMonths:
		return domain.SeverityMinor
	default:
		return domain.SeverityModerate
	}
}
