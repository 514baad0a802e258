// Package cockpit projects current, recommended and live cockpit setups onto
// a fixed-size side-view canvas.
package cockpit

// Point is a canvas position in pixels. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type VizFrame struct {
	StackMm          float64  `json:"stackMm"`
	ReachMm          float64  `json:"reachMm"`
	HeadTubeLengthMm *float64 `json:"headTubeLengthMm,omitempty"`
}

type VizCurrent struct {
	StemMm       float64 `json:"stemMm"`
	SpacerMm     float64 `json:"spacerMm"`
	BarReachMm   float64 `json:"barReachMm"`
	HoodOffsetMm float64 `json:"hoodOffsetMm"`
}

type VizTarget struct {
	TargetReachMm      int        `json:"targetReachMm"`
	TargetDropMm       int        `json:"targetDropMm"`
	IdealStemMm        float64    `json:"idealStemMm"`
	IdealSpacerMm      float64    `json:"idealSpacerMm"`
	IdealBarReachMm    float64    `json:"idealBarReachMm"`
	IdealStemRangeMm   [2]int     `json:"idealStemRangeMm"`
	IdealSpacerRangeMm [2]float64 `json:"idealSpacerRangeMm"`
	ReachDeltaMm       int        `json:"reachDeltaMm"`
	Confidence         int        `json:"confidence"`
	Flags              []string   `json:"flags"`
}

// VizInput is everything the projector needs: the frame, the setup as it is
// mounted and the recommendation.
type VizInput struct {
	Frame          VizFrame   `json:"frame"`
	Current        VizCurrent `json:"current"`
	Target         VizTarget  `json:"target"`
	SaddleHeightMm *float64   `json:"saddleHeightMm,omitempty"`
}

// Overrides are the live values shown by interactive controls.
type Overrides struct {
	StemMm     float64 `json:"stem"`
	SpacersMm  float64 `json:"spacers"`
	BarReachMm float64 `json:"barReach"`
}

type CanvasSize struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

type FrameModel struct {
	BB        Point `json:"bb"`
	HeadTop   Point `json:"headTop"`
	ReachLine Line  `json:"reachLine"`
	StackLine Line  `json:"stackLine"`
}

// CockpitModel is one drawn cockpit: stem from the spacer-raised head tube
// top to StemEnd, bar from StemEnd to BarEnd, and the hood contact point.
type CockpitModel struct {
	StemPx   float64 `json:"stemPx"`
	BarPx    float64 `json:"barPx"`
	SpacerPx float64 `json:"spacerPx"`
	StemEnd  Point   `json:"stemEnd"`
	BarEnd   Point   `json:"barEnd"`
	Hood     Point   `json:"hood"`
}

// Deltas compare the live cockpit with the recommended one (Reach) and with
// the current one (Drop). TargetGap is live effective reach minus the
// rider's target reach, set only when the recommendation carries one.
type Deltas struct {
	Reach          int        `json:"reach"`
	Drop           int        `json:"drop"`
	ReachColor     DeltaColor `json:"reachColor"`
	DropColor      DeltaColor `json:"dropColor"`
	TargetGap      *int       `json:"targetGap,omitempty"`
	TargetGapColor DeltaColor `json:"targetGapColor,omitempty"`
}

type Bands struct {
	StemRange   [2]int     `json:"stemRange"`
	SpacerRange [2]float64 `json:"spacerRange"`
}

type Scale struct {
	XScale float64 `json:"xScale"`
	YScale float64 `json:"yScale"`
}

// Extents holds the effective reach or stack of the three setups in mm.
type Extents struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Live    float64 `json:"live"`
}

// SvgModel is the rendered-ready projection. Target is the recommended
// cockpit and Live the one built from the overrides.
type SvgModel struct {
	Size             CanvasSize   `json:"size"`
	Frame            FrameModel   `json:"frame"`
	Current          CockpitModel `json:"current"`
	Target           CockpitModel `json:"target"`
	Live             CockpitModel `json:"live"`
	Deltas           Deltas       `json:"deltas"`
	Bands            Bands        `json:"bands"`
	Scale            Scale        `json:"scale"`
	EffectiveReachMm Extents      `json:"effectiveReachMm"`
	EffectiveStackMm Extents      `json:"effectiveStackMm"`
}
