// internal/fit/types.go
package fit

type Flexibility string

const (
	FlexibilityLow    Flexibility = "low"
	FlexibilityMedium Flexibility = "medium"
	FlexibilityHigh   Flexibility = "high"
)

type RidingStyle string

const (
	RidingStyleComfort   RidingStyle = "comfort"
	RidingStyleEndurance RidingStyle = "endurance"
	RidingStyleRace      RidingStyle = "race"
)

type PainPoint string

const (
	PainHands  PainPoint = "hands"
	PainNeck   PainPoint = "neck"
	PainBack   PainPoint = "back"
	PainSaddle PainPoint = "saddle"
)

// RiderProfile carries body measurements in centimetres plus posture
// preferences. A zero torso or arm length means the measurement is absent.
type RiderProfile struct {
	HeightCm      *float64    `json:"heightCm,omitempty"`
	InseamCm      *float64    `json:"inseamCm,omitempty"`
	TorsoLengthCm float64     `json:"torsoLengthCm"`
	ArmLengthCm   float64     `json:"armLengthCm"`
	Flexibility   Flexibility `json:"flexibility"`
	RidingStyle   RidingStyle `json:"ridingStyle"`
	PainPoints    []PainPoint `json:"painPoints,omitempty"`
}

// HasPainPoint reports whether the rider listed the given pain point.
func (r RiderProfile) HasPainPoint(p PainPoint) bool {
	for _, pp := range r.PainPoints {
		if pp == p {
			return true
		}
	}
	return false
}

// FrameGeometry is the resolved frame shape in millimetres and degrees.
// Zero stack or reach means the value is absent.
type FrameGeometry struct {
	StackMm          float64  `json:"stackMm"`
	ReachMm          float64  `json:"reachMm"`
	HeadTubeAngleDeg *float64 `json:"headTubeAngleDeg,omitempty"`
	SeatTubeAngleDeg *float64 `json:"seatTubeAngleDeg,omitempty"`
	HeadTubeLengthMm *float64 `json:"headTubeLengthMm,omitempty"`
	WheelbaseMm      *float64 `json:"wheelbaseMm,omitempty"`
}

// CurrentSetup describes the cockpit as it is mounted today. SpacerStackMm
// and HoodReachOffsetMm are pointers because zero is a legitimate value for
// both and must be told apart from "not supplied".
type CurrentSetup struct {
	StemLengthMm      float64  `json:"stemLengthMm"`
	SpacerStackMm     *float64 `json:"spacerStackMm,omitempty"`
	BarReachMm        float64  `json:"barReachMm"`
	HoodReachOffsetMm *float64 `json:"hoodReachOffsetMm,omitempty"`
	SaddleHeightMm    *float64 `json:"saddleHeightMm,omitempty"`
	SaddleSetbackMm   *float64 `json:"saddleSetbackMm,omitempty"`
}

type ReachBand struct {
	MinMm int `json:"minMm"`
	MidMm int `json:"midMm"`
	MaxMm int `json:"maxMm"`
}

type DropBand struct {
	MinMm int `json:"minMm"`
	MaxMm int `json:"maxMm"`
}

type StemRecommendation struct {
	SnappedMm int   `json:"snappedMm"`
	AllowedMm []int `json:"allowedMm"`
	BasisMm   int   `json:"basisMm"`
}

// SpacerRecommendation has a nil band when there was not enough data to
// compute one.
type SpacerRecommendation struct {
	RecommendedMm float64  `json:"recommendedMm"`
	MinMm         *float64 `json:"minMm"`
	MaxMm         *float64 `json:"maxMm"`
}

type FitRecommendation struct {
	TargetReach ReachBand            `json:"targetReach"`
	TargetDrop  DropBand             `json:"targetDrop"`
	Stem        StemRecommendation   `json:"stem"`
	Spacers     SpacerRecommendation `json:"spacers"`
	Confidence  float64              `json:"confidence"`
	Notes       []string             `json:"notes"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
