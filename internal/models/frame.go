// internal/models/frame.go
package models

import "cockpit-fit-workers/internal/fit"

// Frame is one size of one frame model in the catalog. Brand, model and size
// label are unique together.
type Frame struct {
	ID               string   `json:"id"`
	Brand            string   `json:"brand"`
	Model            string   `json:"model"`
	SizeLabel        string   `json:"sizeLabel"`
	StackMm          float64  `json:"stackMm"`
	ReachMm          float64  `json:"reachMm"`
	SeatTubeAngleDeg *float64 `json:"seatTubeAngleDeg,omitempty"`
	HeadTubeAngleDeg *float64 `json:"headTubeAngleDeg,omitempty"`
	HeadTubeLengthMm *float64 `json:"headTubeLengthMm,omitempty"`
	WheelbaseMm      *float64 `json:"wheelbaseMm,omitempty"`
}

func (f Frame) Geometry() fit.FrameGeometry {
	return fit.FrameGeometry{
		StackMm:          f.StackMm,
		ReachMm:          f.ReachMm,
		HeadTubeAngleDeg: f.HeadTubeAngleDeg,
		SeatTubeAngleDeg: f.SeatTubeAngleDeg,
		HeadTubeLengthMm: f.HeadTubeLengthMm,
		WheelbaseMm:      f.WheelbaseMm,
	}
}

// DisplayName is "Brand Model (Size)".
func (f Frame) DisplayName() string {
	if f.SizeLabel == "" {
		return f.Brand + " " + f.Model
	}
	return f.Brand + " " + f.Model + " (" + f.SizeLabel + ")"
}
