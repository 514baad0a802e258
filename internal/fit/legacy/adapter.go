// internal/fit/legacy/adapter.go
package legacy

import (
	"strings"

	"cockpit-fit-workers/internal/fit"
)

const (
	FlagFrameMaybeTooLong  = "frame_maybe_too_long"
	FlagFrameMaybeTooShort = "frame_maybe_too_short"
	FlagConsiderBarChange  = "consider_bar_change"
)

const (
	RationaleHands       = "Reduced forward reach to limit hand load."
	RationaleNeck        = "Raised bar height to reduce neck extension."
	RationaleBack        = "Shortened reach to reduce lower back strain."
	RationaleComfort     = "Comfort posture shortens reach and reduces drop."
	RationaleRace        = "Race posture increases reach and drop for aerodynamics."
	RationaleLowFlex     = "Limited flexibility requires more upright position."
	RationaleHighFlex    = "High flexibility allows for more aggressive position."
	minStemPinMm         = 50
	maxStemPinMm         = 110
	stemRangeHalfWidthMm = 5
	spacerRangeFallback  = 5
)

// FitInput is the older call shape: centimetre body measurements, a 1-3
// flexibility level and a bar category instead of a bar reach.
type FitInput struct {
	TorsoCm          float64         `json:"torsoCm"`
	ArmCm            float64         `json:"armCm"`
	FlexibilityLevel int             `json:"flexibilityLevel"`
	RidingStyle      fit.RidingStyle `json:"ridingStyle"`
	PainPoints       []fit.PainPoint `json:"painPoints"`
	FrameReachMm     float64         `json:"frameReachMm"`
	StemMm           float64         `json:"stemMm"`
	SpacerMm         float64         `json:"spacerMm"`
	BarReachCategory BarCategory     `json:"barReachCategory"`
}

type FitResult struct {
	TargetReachMm               int         `json:"targetReachMm"`
	TargetDropMm                int         `json:"targetDropMm"`
	IdealStemMm                 int         `json:"idealStemMm"`
	IdealStemRangeMm            [2]int      `json:"idealStemRangeMm"`
	IdealSpacerMm               float64     `json:"idealSpacerMm"`
	IdealSpacerRangeMm          [2]float64  `json:"idealSpacerRangeMm"`
	RecommendedBarReachCategory BarCategory `json:"recommendedBarReachCategory"`
	CurrentEffectiveReachMm     int         `json:"currentEffectiveReachMm"`
	ReachDeltaMm                int         `json:"reachDeltaMm"`
	Confidence                  int         `json:"confidence"`
	Flags                       []string    `json:"flags"`
	Rationale                   []string    `json:"rationale"`
}

// Adapter runs the fit engine for FitInput callers and derives the bar
// category, flags and rationale the engine does not produce.
type Adapter struct {
	calc *fit.Calculator
}

func NewAdapter(calc *fit.Calculator) *Adapter {
	return &Adapter{calc: calc}
}

var defaultAdapter = NewAdapter(fit.NewCalculator(fit.DefaultHoodGeometry()))

// CalculateFitV1 runs the adapter with the default hood geometry.
func CalculateFitV1(input FitInput) FitResult {
	return defaultAdapter.Calculate(input)
}

// Calculate converts input, runs the engine once and maps the result back.
// The bar category decision is one-shot: the stem is not re-solved after a
// category change. ResolveStemAndBar does that.
func (a *Adapter) Calculate(input FitInput) FitResult {
	flexibility := FlexibilityFromLevel(input.FlexibilityLevel)
	barMm := GetBarReachMm(input.BarReachCategory)
	hoodOffset := a.calc.Hood().EffectiveReachOffsetMm

	rider := fit.RiderProfile{
		TorsoLengthCm: input.TorsoCm,
		ArmLengthCm:   input.ArmCm,
		Flexibility:   flexibility,
		RidingStyle:   input.RidingStyle,
	}
	// Frame stack is not part of this call shape.
	frame := fit.FrameGeometry{
		StackMm: 0,
		ReachMm: input.FrameReachMm,
	}
	current := fit.CurrentSetup{
		StemLengthMm:      input.StemMm,
		SpacerStackMm:     fit.Float(input.SpacerMm),
		BarReachMm:        barMm,
		HoodReachOffsetMm: fit.Float(hoodOffset),
	}

	rec := a.calc.Compute(rider, frame, current)

	currentEffectiveReach := input.FrameReachMm + input.StemMm + barMm + hoodOffset
	snapped := rec.Stem.SnappedMm
	mid := float64(rec.TargetReach.MidMm)

	return FitResult{
		TargetReachMm:               rec.TargetReach.MidMm,
		TargetDropMm:                fit.RoundToInt(float64(rec.TargetDrop.MinMm+rec.TargetDrop.MaxMm) / 2),
		IdealStemMm:                 snapped,
		IdealStemRangeMm:            [2]int{snapped - stemRangeHalfWidthMm, snapped + stemRangeHalfWidthMm},
		IdealSpacerMm:               rec.Spacers.RecommendedMm,
		IdealSpacerRangeMm:          spacerRange(rec.Spacers),
		RecommendedBarReachCategory: recommendBar(snapped, input.BarReachCategory),
		CurrentEffectiveReachMm:     fit.RoundToInt(currentEffectiveReach),
		ReachDeltaMm:                fit.RoundToInt(currentEffectiveReach - mid),
		Confidence:                  ConfidencePercent(rec.Confidence),
		Flags:                       buildFlags(snapped, currentEffectiveReach, mid),
		Rationale:                   buildRationale(input, flexibility, rec.Notes),
	}
}

// ConfidencePercent maps the engine's 0.3-1.0 confidence onto 40-95.
func ConfidencePercent(confidence float64) int {
	return fit.RoundToInt(40 + confidence*55)
}

// GetAllowedStemRange lists the standard stems within ±10mm of snapped.
func GetAllowedStemRange(snapped int) []int {
	return fit.AllowedStems(snapped)
}

func spacerRange(s fit.SpacerRecommendation) [2]float64 {
	lo := s.RecommendedMm - spacerRangeFallback
	hi := s.RecommendedMm + spacerRangeFallback
	if s.MinMm != nil {
		lo = *s.MinMm
	}
	if s.MaxMm != nil {
		hi = *s.MaxMm
	}
	return [2]float64{lo, hi}
}

// recommendBar only ever moves to an extreme category. Snapped stems never
// go below 50, so the short branch only fires if the size table changes.
func recommendBar(snapped int, current BarCategory) BarCategory {
	switch {
	case snapped < minStemPinMm && current != BarShort:
		return BarShort
	case snapped > maxStemPinMm && current != BarLong:
		return BarLong
	default:
		return current
	}
}

func buildFlags(snapped int, currentEffectiveReach, targetMid float64) []string {
	flags := []string{}
	if snapped <= minStemPinMm && currentEffectiveReach > targetMid {
		flags = append(flags, FlagFrameMaybeTooLong)
	}
	if snapped >= maxStemPinMm && currentEffectiveReach < targetMid {
		flags = append(flags, FlagFrameMaybeTooShort)
	}
	if snapped <= minStemPinMm || snapped >= maxStemPinMm {
		flags = append(flags, FlagConsiderBarChange)
	}
	return flags
}

func buildRationale(input FitInput, flexibility fit.Flexibility, notes []string) []string {
	rationale := []string{}

	if hasPain(input.PainPoints, fit.PainHands) {
		rationale = append(rationale, RationaleHands)
	}
	if hasPain(input.PainPoints, fit.PainNeck) {
		rationale = append(rationale, RationaleNeck)
	}
	if hasPain(input.PainPoints, fit.PainBack) {
		rationale = append(rationale, RationaleBack)
	}

	switch input.RidingStyle {
	case fit.RidingStyleComfort:
		rationale = append(rationale, RationaleComfort)
	case fit.RidingStyleRace:
		rationale = append(rationale, RationaleRace)
	}

	switch flexibility {
	case fit.FlexibilityLow:
		rationale = append(rationale, RationaleLowFlex)
	case fit.FlexibilityHigh:
		rationale = append(rationale, RationaleHighFlex)
	}

	for _, note := range notes {
		if !strings.Contains(note, "Missing") {
			rationale = append(rationale, note)
		}
	}

	return rationale
}

func hasPain(points []fit.PainPoint, p fit.PainPoint) bool {
	for _, pp := range points {
		if pp == p {
			return true
		}
	}
	return false
}
