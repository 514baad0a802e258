package legacy

import (
	"math"

	"cockpit-fit-workers/internal/fit"
)

// BarCategory buckets handlebar reach into the three sizes riders pick from.
type BarCategory string

const (
	BarShort BarCategory = "short"
	BarMed   BarCategory = "med"
	BarLong  BarCategory = "long"
)

// barCategories is ordered shortest first.
var barCategories = []BarCategory{BarShort, BarMed, BarLong}

var barReachMm = map[BarCategory]float64{
	BarShort: 72,
	BarMed:   78,
	BarLong:  86,
}

var barReachRangeMm = map[BarCategory][2]int{
	BarShort: {70, 75},
	BarMed:   {75, 80},
	BarLong:  {85, 95},
}

// Valid reports whether c is one of the known categories.
func (c BarCategory) Valid() bool {
	_, ok := barReachMm[c]
	return ok
}

// GetBarReachMm resolves a category to its nominal reach. Unknown categories
// resolve to the medium reach.
func GetBarReachMm(category BarCategory) float64 {
	if mm, ok := barReachMm[category]; ok {
		return mm
	}
	return barReachMm[BarMed]
}

// GetBarReachRange returns the catalogue reach range for a category.
func GetBarReachRange(category BarCategory) [2]int {
	if r, ok := barReachRangeMm[category]; ok {
		return r
	}
	return barReachRangeMm[BarMed]
}

// BarCategoryForReach maps a reach value back to the category whose nominal
// reach is closest. Ties go to the shorter category.
func BarCategoryForReach(mm float64) BarCategory {
	best := barCategories[0]
	bestDiff := math.Abs(mm - barReachMm[best])
	for _, c := range barCategories[1:] {
		if diff := math.Abs(mm - barReachMm[c]); diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best
}

func shorterBar(c BarCategory) (BarCategory, bool) {
	for i, bc := range barCategories {
		if bc == c && i > 0 {
			return barCategories[i-1], true
		}
	}
	return c, false
}

func longerBar(c BarCategory) (BarCategory, bool) {
	for i, bc := range barCategories {
		if bc == c && i < len(barCategories)-1 {
			return barCategories[i+1], true
		}
	}
	return c, false
}

// FlexibilityFromLevel maps the 1-3 scale: 1 is low, 3 is high, anything
// else is medium.
func FlexibilityFromLevel(level int) fit.Flexibility {
	switch level {
	case 1:
		return fit.FlexibilityLow
	case 3:
		return fit.FlexibilityHigh
	default:
		return fit.FlexibilityMedium
	}
}
