// internal/fit/engine.go
package fit

import (
	"fmt"
	"math"
)

// Anthropometric regression constants applied to torso and arm length (mm).
const (
	TorsoReachFactor = 0.43
	ArmReachFactor   = 0.35
)

const (
	ReachToleranceMm     = 5
	AllowedStemWindowMm  = 10
	SpacerBandMm         = 20
	DefaultSpacerStackMm = 20
	MissingFieldPenalty  = 0.15
	MinConfidence        = 0.3
	MaxConfidence        = 1.0
)

const (
	spacerFallbackNote   = "Insufficient data for precise spacer calculation; using current setup"
	missingFieldNoteTmpl = "Missing %s reduces confidence"
)

// stemSizesMm are the stem lengths sold as standard sizes, shortest first.
var stemSizesMm = [...]int{50, 60, 70, 80, 90, 100, 110, 120}

var flexibilityAdjustmentsMm = map[Flexibility]float64{
	FlexibilityLow:    -15,
	FlexibilityMedium: 0,
	FlexibilityHigh:   10,
}

var ridingStyleAdjustmentsMm = map[RidingStyle]float64{
	RidingStyleComfort:   -20,
	RidingStyleEndurance: 0,
	RidingStyleRace:      15,
}

var dropRangesMm = map[RidingStyle]DropBand{
	RidingStyleComfort:   {MinMm: 10, MaxMm: 20},
	RidingStyleEndurance: {MinMm: 20, MaxMm: 40},
	RidingStyleRace:      {MinMm: 50, MaxMm: 80},
}

// Calculator computes fit recommendations. It holds no mutable state and is
// safe for concurrent use.
type Calculator struct {
	hood HoodGeometry
}

func NewCalculator(hood HoodGeometry) *Calculator {
	return &Calculator{hood: hood}
}

var defaultCalculator = NewCalculator(DefaultHoodGeometry())

// ComputeFitRecommendation runs the engine with the default hood geometry.
func ComputeFitRecommendation(rider RiderProfile, frame FrameGeometry, current CurrentSetup) FitRecommendation {
	return defaultCalculator.Compute(rider, frame, current)
}

// Hood returns the hood geometry the calculator was built with.
func (c *Calculator) Hood() HoodGeometry {
	return c.hood
}

// Compute maps rider, frame and current setup to a recommendation. It never
// fails: absent measurements are treated as zero, lower the confidence and
// add a note.
func (c *Calculator) Compute(rider RiderProfile, frame FrameGeometry, current CurrentSetup) FitRecommendation {
	notes := []string{}

	targetReachMid := BaseReachMm(rider) + ReachAdjustmentMm(rider.Flexibility, rider.RidingStyle)
	targetDrop := TargetDropRange(rider.RidingStyle)

	hoodOffset := c.hood.DefaultOffsetMm
	if current.HoodReachOffsetMm != nil {
		hoodOffset = *current.HoodReachOffsetMm
	}
	basisStem := targetReachMid - (frame.ReachMm + current.BarReachMm + hoodOffset)
	snapped := SnapStemLength(basisStem)

	spacers := recommendSpacers(frame, current, &notes)
	confidence := scoreConfidence(rider, frame, current, &notes)

	return FitRecommendation{
		TargetReach: ReachBand{
			MinMm: RoundToInt(targetReachMid - ReachToleranceMm),
			MidMm: RoundToInt(targetReachMid),
			MaxMm: RoundToInt(targetReachMid + ReachToleranceMm),
		},
		TargetDrop: targetDrop,
		Stem: StemRecommendation{
			SnappedMm: snapped,
			AllowedMm: AllowedStems(snapped),
			BasisMm:   RoundToInt(basisStem),
		},
		Spacers:    spacers,
		Confidence: confidence,
		Notes:      notes,
	}
}

// BaseReachMm is torso_mm*0.43 + arm_mm*0.35, before any adjustment.
func BaseReachMm(rider RiderProfile) float64 {
	return CmToMm(rider.TorsoLengthCm)*TorsoReachFactor + CmToMm(rider.ArmLengthCm)*ArmReachFactor
}

// ReachAdjustmentMm sums the flexibility and riding style adjustments.
// Unknown values contribute nothing.
func ReachAdjustmentMm(flex Flexibility, style RidingStyle) float64 {
	return flexibilityAdjustmentsMm[flex] + ridingStyleAdjustmentsMm[style]
}

// TargetDropRange returns the saddle-to-hood drop band for a riding style.
// Unknown styles get the endurance band.
func TargetDropRange(style RidingStyle) DropBand {
	if band, ok := dropRangesMm[style]; ok {
		return band
	}
	return dropRangesMm[RidingStyleEndurance]
}

// StemSizes returns a copy of the standard stem sizes.
func StemSizes() []int {
	out := make([]int, len(stemSizesMm))
	copy(out, stemSizesMm[:])
	return out
}

// SnapStemLength returns the standard size nearest to basisMm. When two sizes
// are equally near the longer one wins.
func SnapStemLength(basisMm float64) int {
	nearest := stemSizesMm[0]
	minDiff := math.Abs(basisMm - float64(nearest))

	for _, size := range stemSizesMm {
		diff := math.Abs(basisMm - float64(size))
		if diff < minDiff || (diff == minDiff && size > nearest) {
			nearest = size
			minDiff = diff
		}
	}

	return nearest
}

// AllowedStems lists the standard sizes within ±10mm of snappedMm, inclusive.
func AllowedStems(snappedMm int) []int {
	allowed := make([]int, 0, 3)
	for _, size := range stemSizesMm {
		if size >= snappedMm-AllowedStemWindowMm && size <= snappedMm+AllowedStemWindowMm {
			allowed = append(allowed, size)
		}
	}
	return allowed
}

// recommendSpacers keeps the current spacer stack and reports a ±20mm band
// around it. Saddle-referenced drop is not modelled yet.
func recommendSpacers(frame FrameGeometry, current CurrentSetup, notes *[]string) SpacerRecommendation {
	if frame.StackMm == 0 || current.SpacerStackMm == nil {
		*notes = append(*notes, spacerFallbackNote)
		recommended := float64(DefaultSpacerStackMm)
		if current.SpacerStackMm != nil {
			recommended = *current.SpacerStackMm
		}
		return SpacerRecommendation{RecommendedMm: recommended}
	}

	spacers := *current.SpacerStackMm
	minMm := math.Max(0, spacers-SpacerBandMm)
	maxMm := spacers + SpacerBandMm

	return SpacerRecommendation{
		RecommendedMm: math.Max(minMm, math.Min(maxMm, spacers)),
		MinMm:         &minMm,
		MaxMm:         &maxMm,
	}
}

type requiredField struct {
	value float64
	name  string
}

// scoreConfidence starts at 1.0 and takes 0.15 off for every required field
// that is zero, never going below 0.3.
func scoreConfidence(rider RiderProfile, frame FrameGeometry, current CurrentSetup, notes *[]string) float64 {
	required := []requiredField{
		{rider.TorsoLengthCm, "torso length"},
		{rider.ArmLengthCm, "arm length"},
		{frame.StackMm, "frame stack"},
		{frame.ReachMm, "frame reach"},
		{current.BarReachMm, "bar reach"},
		{current.StemLengthMm, "stem length"},
	}

	missing := 0
	for _, f := range required {
		if f.value == 0 {
			missing++
			*notes = append(*notes, fmt.Sprintf(missingFieldNoteTmpl, f.name))
		}
	}

	// Rounded to hundredths so repeated 0.15 steps land on exact values.
	confidence := math.Round((MaxConfidence-MissingFieldPenalty*float64(missing))*100) / 100
	return math.Max(MinConfidence, confidence)
}
