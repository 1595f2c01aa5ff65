package remediation

import (
	"strings"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// CulturalTag is the recognized cultural context of a goal. The keyword
// heuristics live entirely in this file so a table- or model-driven
// classifier can replace them without touching any calculation.
type CulturalTag string

const (
	TagWedding    CulturalTag = "wedding"
	TagEducation  CulturalTag = "education"
	TagHome       CulturalTag = "home_purchase"
	TagParentCare CulturalTag = "parent_care"
	TagReligious  CulturalTag = "religious"
	TagUnknown    CulturalTag = "unknown"
)

var culturalKeywords = []struct {
	tag   CulturalTag
	words []string
}{
	{TagWedding, []string{"wedding", "marriage", "shaadi", "engagement"}},
	{TagEducation, []string{"education", "college", "school", "university", "degree", "abroad", "coaching"}},
	{TagHome, []string{"home", "house", "flat", "apartment", "property", "griha"}},
	{TagParentCare, []string{"parent", "father", "mother", "in-laws", "elder care"}},
	{TagReligious, []string{"puja", "pilgrimage", "temple", "religious", "ceremony", "yatra"}},
}

// ClassifyCultural tags a goal's cultural context: the category decides when
// it maps directly, otherwise the title and notes are scanned for keywords.
func ClassifyCultural(goal *domain.Goal) CulturalTag {
	switch goal.Category {
	case domain.CategoryWedding:
		return TagWedding
	case domain.CategoryEducation:
		return TagEducation
	case domain.CategoryHomePurchase:
		return TagHome
	}
	text := strings.ToLower(goal.Title + " " + goal.Notes)
	for _, entry := range culturalKeywords {
		for _, word := range entry.words {
			if strings.Contains(text, word) {
				return entry.tag
			}
		}
	}
	return TagUnknown
}

// CulturalFactor returns the significance multiplier (>1.0 for recognized
// contexts) used when adjusting priorities.
func CulturalFactor(tag CulturalTag) float64 {
	switch tag {
	case TagWedding, TagParentCare:
		return 1.3
	case TagEducation:
		return 1.25
	case TagReligious:
		return 1.2
	case TagHome:
		return 1.15
	default:
		return 1.0
	}
}

// IsDelaySensitive reports whether a goal tolerates delay poorly: weddings,
// education milestones and religious ceremonies have externally fixed dates.
func IsDelaySensitive(goal *domain.Goal) bool {
	if goal.Category.IsCulturallySensitive() {
		return true
	}
	switch ClassifyCultural(goal) {
	case TagWedding, TagEducation, TagReligious:
		return true
	}
	return false
}
