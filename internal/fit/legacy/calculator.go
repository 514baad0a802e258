// internal/fit/legacy/calculator.go
package legacy

import (
	"math"

	"cockpit-fit-workers/internal/fit"
)

// Profile is the predecessor calculator's rider input. Zero torso or arm
// length is estimated from height.
type Profile struct {
	HeightCm         float64         `json:"heightCm"`
	InseamCm         float64         `json:"inseamCm"`
	TorsoCm          float64         `json:"torsoCm,omitempty"`
	ArmCm            float64         `json:"armCm,omitempty"`
	FlexibilityLevel int             `json:"flexibilityLevel,omitempty"`
	RidingStyle      fit.RidingStyle `json:"ridingStyle,omitempty"`
	PainPoints       []fit.PainPoint `json:"painPoints,omitempty"`
}

type Geometry struct {
	StackMm float64 `json:"stackMm"`
	ReachMm float64 `json:"reachMm"`
}

type Setup struct {
	StemMm           float64     `json:"stemMm,omitempty"`
	SpacerMm         *float64    `json:"spacerMm,omitempty"`
	BarReachCategory BarCategory `json:"barReachCategory,omitempty"`
}

type Recommendation struct {
	TargetReachMm         int         `json:"targetReachMm"`
	TargetStackMm         int         `json:"targetStackMm"`
	IdealStemMm           int         `json:"idealStemMm"`
	IdealSpacerMm         int         `json:"idealSpacerMm"`
	IdealBarReachCategory BarCategory `json:"idealBarReachCategory"`
	DiscomfortScore       int         `json:"discomfortScore"`
	Notes                 []string    `json:"notes"`
}

const (
	torsoHeightRatio  = 0.32
	armHeightRatio    = 0.38
	inseamHeightRatio = 0.45
	averageArmCm      = 65
	baseStemMm        = 80
	minIdealStemMm    = 60
	maxIdealStemMm    = 130
	maxIdealSpacerMm  = 50
	spacerStepMm      = 5
	shortArmCm        = 60
	longArmCm         = 70
)

const (
	NoteComfortReach = "Comfort position: shortened reach for upright posture"
	NoteRaceReach    = "Race position: extended reach for aerodynamics"
	NoteLowFlexReach = "Low flexibility: reducing reach to avoid overextension"
	NoteHandsReach   = "Hand discomfort: reducing reach to take weight off hands"
	NoteNeckBarRaise = "Neck discomfort: will raise bar height"
	NoteBackNeckRise = "Back/neck pain: raising bar height to reduce strain"
	NoteHandsBar     = "Hand pain: suggesting shorter bar reach to reduce wrist extension"
)

// CalculateFit is the predecessor fit formula. Its reach comes from height
// and the torso to inseam ratio rather than the torso and arm regression, and
// it also proposes a spacer stack, a bar category and a discomfort score for
// the current setup. Current may be nil.
func CalculateFit(profile Profile, geometry Geometry, current *Setup) Recommendation {
	notes := []string{}

	torso := profile.TorsoCm
	if torso == 0 {
		torso = fit.RoundHalfUp(profile.HeightCm * torsoHeightRatio)
	}
	arm := profile.ArmCm
	if arm == 0 {
		arm = fit.RoundHalfUp(profile.HeightCm * armHeightRatio)
	}
	inseam := profile.InseamCm
	if inseam == 0 {
		inseam = profile.HeightCm * inseamHeightRatio
	}

	var multiplier float64
	if inseam != 0 {
		multiplier = 0.45 + (torso/inseam-0.6)*0.3
	}
	targetReach := fit.CmToMm(profile.HeightCm) * multiplier

	style := profile.RidingStyle
	if style == "" {
		style = fit.RidingStyleEndurance
	}
	switch style {
	case fit.RidingStyleComfort:
		targetReach -= 20
		notes = append(notes, NoteComfortReach)
	case fit.RidingStyleRace:
		targetReach += 15
		notes = append(notes, NoteRaceReach)
	}

	flex := profile.FlexibilityLevel
	if flex == 0 {
		flex = 2
	}
	switch flex {
	case 1:
		targetReach -= 10
		notes = append(notes, NoteLowFlexReach)
	case 3:
		targetReach += 10
	}

	hands := hasPain(profile.PainPoints, fit.PainHands)
	neck := hasPain(profile.PainPoints, fit.PainNeck)
	back := hasPain(profile.PainPoints, fit.PainBack)
	if hands {
		targetReach -= 15
		notes = append(notes, NoteHandsReach)
	}
	if neck {
		notes = append(notes, NoteNeckBarRaise)
	}

	targetStack := geometry.StackMm
	switch flex {
	case 1:
		targetStack += 20
	case 3:
		targetStack -= 10
	}
	switch style {
	case fit.RidingStyleComfort:
		targetStack += 25
	case fit.RidingStyleRace:
		targetStack -= 15
	}
	if neck || back {
		targetStack += 20
		notes = append(notes, NoteBackNeckRise)
	}

	reachGap := targetReach - geometry.ReachMm
	idealStem := int(fit.RoundHalfUp((baseStemMm+reachGap)*(arm/averageArmCm)/10) * 10)
	idealStem = clampInt(idealStem, minIdealStemMm, maxIdealStemMm)

	stackGap := targetStack - geometry.StackMm
	idealSpacer := int(math.Max(0, fit.RoundHalfUp(stackGap/spacerStepMm)*spacerStepMm))
	idealSpacer = clampInt(idealSpacer, 0, maxIdealSpacerMm)

	idealBar := BarMed
	switch {
	case arm < shortArmCm:
		idealBar = BarShort
	case arm > longArmCm:
		idealBar = BarLong
	}
	if hands && idealBar != BarShort {
		idealBar, _ = shorterBar(idealBar)
		notes = append(notes, NoteHandsBar)
	}

	return Recommendation{
		TargetReachMm:         fit.RoundToInt(targetReach),
		TargetStackMm:         fit.RoundToInt(targetStack),
		IdealStemMm:           idealStem,
		IdealSpacerMm:         idealSpacer,
		IdealBarReachCategory: idealBar,
		DiscomfortScore:       discomfortScore(current, idealStem, idealSpacer, idealBar, len(profile.PainPoints)),
		Notes:                 notes,
	}
}

// discomfortScore is 0 for a setup matching the recommendation and caps at 100.
func discomfortScore(current *Setup, idealStem, idealSpacer int, idealBar BarCategory, painCount int) int {
	score := 0.0
	if current != nil {
		if current.StemMm != 0 {
			score += math.Min(40, math.Abs(current.StemMm-float64(idealStem))/2)
		}
		if current.SpacerMm != nil {
			score += math.Min(30, math.Abs(*current.SpacerMm-float64(idealSpacer)))
		}
		if current.BarReachCategory != "" && current.BarReachCategory != idealBar {
			score += 20
		}
	}
	score += float64(painCount) * 5
	return fit.RoundToInt(math.Min(100, score))
}

type DiscomfortLevel struct {
	Level string `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// GetDiscomfortLevel buckets a discomfort score for display.
func GetDiscomfortLevel(score int) DiscomfortLevel {
	switch {
	case score < 15:
		return DiscomfortLevel{Level: "optimal", Label: "Optimal fit", Color: "text-green-600"}
	case score < 35:
		return DiscomfortLevel{Level: "minor", Label: "Minor adjustments recommended", Color: "text-yellow-600"}
	case score < 60:
		return DiscomfortLevel{Level: "moderate", Label: "Moderate issues detected", Color: "text-orange-600"}
	default:
		return DiscomfortLevel{Level: "significant", Label: "Significant fit issues", Color: "text-red-600"}
	}
}

// StemBarResolution is the outcome of ResolveStemAndBar.
type StemBarResolution struct {
	BarReachCategory BarCategory `json:"barReachCategory"`
	SnappedStemMm    int         `json:"snappedStemMm"`
	BasisMm          int         `json:"basisMm"`
	Swaps            int         `json:"swaps"`
}

// ResolveStemAndBar solves the stem for targetMidMm and, when the basis falls
// outside the stem table, swaps the bar category one step and solves again.
// It stops once no swap applies, so at most two swaps happen.
func ResolveStemAndBar(targetMidMm, frameReachMm, hoodOffsetMm float64, start BarCategory) StemBarResolution {
	category := start
	if !category.Valid() {
		category = BarMed
	}
	minStem := float64(fit.StemSizes()[0])
	maxStem := float64(fit.StemSizes()[len(fit.StemSizes())-1])

	swaps := 0
	basis := targetMidMm - (frameReachMm + GetBarReachMm(category) + hoodOffsetMm)
	for swaps < len(barCategories)-1 {
		next, ok := category, false
		switch {
		case basis < minStem:
			next, ok = shorterBar(category)
		case basis > maxStem:
			next, ok = longerBar(category)
		}
		if !ok {
			break
		}
		category = next
		swaps++
		basis = targetMidMm - (frameReachMm + GetBarReachMm(category) + hoodOffsetMm)
	}

	return StemBarResolution{
		BarReachCategory: category,
		SnappedStemMm:    fit.SnapStemLength(basis),
		BasisMm:          fit.RoundToInt(basis),
		Swaps:            swaps,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
