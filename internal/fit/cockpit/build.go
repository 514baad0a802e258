package cockpit

import (
	"cockpit-fit-workers/internal/fit/legacy"
)

// BuildParams is the flat set of bike, profile and fit fields the
// visualization is assembled from.
type BuildParams struct {
	FrameStackMm       float64            `json:"frameStackMm"`
	FrameReachMm       float64            `json:"frameReachMm"`
	HeadTubeLengthMm   *float64           `json:"headTubeLengthMm,omitempty"`
	CurrentStemMm      float64            `json:"currentStemMm"`
	CurrentSpacerMm    float64            `json:"currentSpacerMm"`
	CurrentBarCategory legacy.BarCategory `json:"currentBarCategory"`
	TargetReachMm      int                `json:"targetReachMm"`
	TargetDropMm       int                `json:"targetDropMm"`
	IdealStemMm        float64            `json:"idealStemMm"`
	IdealSpacerMm      float64            `json:"idealSpacerMm"`
	IdealBarCategory   legacy.BarCategory `json:"idealBarCategory"`
	IdealStemRange     [2]int             `json:"idealStemRange"`
	IdealSpacerRange   [2]float64         `json:"idealSpacerRange"`
	ReachDelta         int                `json:"reachDelta"`
	Confidence         int                `json:"confidence"`
	Flags              []string           `json:"flags"`
	SaddleHeightMm     *float64           `json:"saddleHeightMm,omitempty"`
}

// BuildVizInput assembles a VizInput with the default hood geometry.
func BuildVizInput(params BuildParams) VizInput {
	return defaultProjector.BuildVizInput(params)
}

// BuildVizInput resolves bar categories to millimetres and sets the current
// hood offset to the projector's visual offset.
func (p *Projector) BuildVizInput(params BuildParams) VizInput {
	flags := params.Flags
	if flags == nil {
		flags = []string{}
	}

	return VizInput{
		Frame: VizFrame{
			StackMm:          params.FrameStackMm,
			ReachMm:          params.FrameReachMm,
			HeadTubeLengthMm: params.HeadTubeLengthMm,
		},
		Current: VizCurrent{
			StemMm:       params.CurrentStemMm,
			SpacerMm:     params.CurrentSpacerMm,
			BarReachMm:   legacy.GetBarReachMm(params.CurrentBarCategory),
			HoodOffsetMm: p.hood.VisualOffsetMm,
		},
		Target: VizTarget{
			TargetReachMm:      params.TargetReachMm,
			TargetDropMm:       params.TargetDropMm,
			IdealStemMm:        params.IdealStemMm,
			IdealSpacerMm:      params.IdealSpacerMm,
			IdealBarReachMm:    legacy.GetBarReachMm(params.IdealBarCategory),
			IdealStemRangeMm:   params.IdealStemRange,
			IdealSpacerRangeMm: params.IdealSpacerRange,
			ReachDeltaMm:       params.ReachDelta,
			Confidence:         params.Confidence,
			Flags:              flags,
		},
		SaddleHeightMm: params.SaddleHeightMm,
	}
}

// ParamsFromFitResult fills BuildParams from a frame, the mounted setup and
// an adapter result.
func ParamsFromFitResult(frame VizFrame, input legacy.FitInput, result legacy.FitResult) BuildParams {
	return BuildParams{
		FrameStackMm:       frame.StackMm,
		FrameReachMm:       frame.ReachMm,
		HeadTubeLengthMm:   frame.HeadTubeLengthMm,
		CurrentStemMm:      input.StemMm,
		CurrentSpacerMm:    input.SpacerMm,
		CurrentBarCategory: input.BarReachCategory,
		TargetReachMm:      result.TargetReachMm,
		TargetDropMm:       result.TargetDropMm,
		IdealStemMm:        float64(result.IdealStemMm),
		IdealSpacerMm:      result.IdealSpacerMm,
		IdealBarCategory:   result.RecommendedBarReachCategory,
		IdealStemRange:     result.IdealStemRangeMm,
		IdealSpacerRange:   result.IdealSpacerRangeMm,
		ReachDelta:         result.ReachDeltaMm,
		Confidence:         result.Confidence,
		Flags:              result.Flags,
	}
}
