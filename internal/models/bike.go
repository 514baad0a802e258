// internal/models/bike.go
package models

import "time"

// Bike is a rider's bike. Geometry comes either from the manual fields or
// from the catalog frame referenced by FrameID.
type Bike struct {
	ID               string   `json:"id"`
	UserID           string   `json:"userId"`
	Name             string   `json:"name"`
	FrameID          *string  `json:"frameId,omitempty"`
	StemMm           *float64 `json:"stemMm,omitempty"`
	SpacerMm         *float64 `json:"spacerMm,omitempty"`
	BarReachCategory string   `json:"barReachCategory,omitempty"`
	SaddleHeightMm   *float64 `json:"saddleHeightMm,omitempty"`
	SaddleSetbackMm  *float64 `json:"saddleSetbackMm,omitempty"`

	ManualStackMm          *float64 `json:"manualStackMm,omitempty"`
	ManualReachMm          *float64 `json:"manualReachMm,omitempty"`
	ManualSeatTubeAngleDeg *float64 `json:"manualSeatTubeAngleDeg,omitempty"`
	ManualHeadTubeLengthMm *float64 `json:"manualHeadTubeLengthMm,omitempty"`
	ManualWheelbaseMm      *float64 `json:"manualWheelbaseMm,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasManualGeometry reports whether both manual stack and reach are set.
func (b Bike) HasManualGeometry() bool {
	return b.ManualStackMm != nil && b.ManualReachMm != nil
}
