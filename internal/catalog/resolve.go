package catalog

import (
	"cockpit-fit-workers/internal/fit"
	"cockpit-fit-workers/internal/models"
)

type GeometrySource string

const (
	SourceManual  GeometrySource = "manual"
	SourceCatalog GeometrySource = "catalog"
)

type ResolvedGeometry struct {
	Geometry fit.FrameGeometry `json:"geometry"`
	Source   GeometrySource    `json:"source"`
	Frame    *models.Frame     `json:"frame,omitempty"`
}

// ResolveFrameGeometry picks the bike's manual geometry when both manual
// stack and reach are set, otherwise the catalog frame. ok is false when
// neither is available.
func ResolveFrameGeometry(bike models.Bike, frame *models.Frame) (ResolvedGeometry, bool) {
	if bike.HasManualGeometry() {
		return ResolvedGeometry{
			Geometry: fit.FrameGeometry{
				StackMm:          *bike.ManualStackMm,
				ReachMm:          *bike.ManualReachMm,
				SeatTubeAngleDeg: bike.ManualSeatTubeAngleDeg,
				HeadTubeLengthMm: bike.ManualHeadTubeLengthMm,
				WheelbaseMm:      bike.ManualWheelbaseMm,
			},
			Source: SourceManual,
		}, true
	}

	if frame != nil {
		return ResolvedGeometry{
			Geometry: frame.Geometry(),
			Source:   SourceCatalog,
			Frame:    frame,
		}, true
	}

	return ResolvedGeometry{}, false
}
