package fit

// HoodGeometry is the single set of hood-position offsets shared by the
// engine, the legacy adapter and the cockpit projector.
//
// The three call sites historically disagreed on the value: the engine falls
// back to 10mm when a setup omits its offset, the legacy adapter adds a fixed
// 10mm when it reports current effective reach, and the projector draws the
// hood 25mm past the bar end and 35px above it. The values are kept as they
// were so recommendations do not shift, but each one is named here and can be
// overridden from configuration.
type HoodGeometry struct {
	// DefaultOffsetMm is used by the engine when CurrentSetup.HoodReachOffsetMm is nil.
	DefaultOffsetMm float64 `json:"defaultOffsetMm"`
	// EffectiveReachOffsetMm is added by the legacy adapter to the current effective reach.
	EffectiveReachOffsetMm float64 `json:"effectiveReachOffsetMm"`
	// VisualOffsetMm is the horizontal bar-end to hood distance used by the projector.
	VisualOffsetMm float64 `json:"visualOffsetMm"`
	// VisualRisePx lifts the drawn hood point above the bar line. Screen pixels, not mm.
	VisualRisePx float64 `json:"visualRisePx"`
}

const (
	DefaultHoodOffsetMm           = 10
	DefaultEffectiveReachOffsetMm = 10
	DefaultVisualHoodOffsetMm     = 25
	DefaultVisualHoodRisePx       = 35
)

// DefaultHoodGeometry returns the offsets the system has always used.
func DefaultHoodGeometry() HoodGeometry {
	return HoodGeometry{
		DefaultOffsetMm:        DefaultHoodOffsetMm,
		EffectiveReachOffsetMm: DefaultEffectiveReachOffsetMm,
		VisualOffsetMm:         DefaultVisualHoodOffsetMm,
		VisualRisePx:           DefaultVisualHoodRisePx,
	}
}
