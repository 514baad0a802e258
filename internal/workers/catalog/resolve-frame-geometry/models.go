// internal/workers/catalog/resolve-frame-geometry/models.go
package resolveframegeometry

import (
	"cockpit-fit-workers/internal/catalog"
	"cockpit-fit-workers/internal/fit"
	"cockpit-fit-workers/internal/fit/legacy"
	"cockpit-fit-workers/internal/models"
)

// Input names a rider's bike or a catalog frame. The bike wins when both
// are given.
type Input struct {
	BikeID  string `json:"bikeId,omitempty"`
	UserID  string `json:"userId,omitempty"`
	FrameID string `json:"frameId,omitempty"`
}

type Output struct {
	Frame        fit.FrameGeometry      `json:"frame"`
	Source       catalog.GeometrySource `json:"source"`
	CatalogFrame *models.Frame          `json:"catalogFrame,omitempty"`
	Setup        *BikeSetup             `json:"setup,omitempty"`
}

// BikeSetup is the cockpit currently mounted on the bike.
type BikeSetup struct {
	StemMm           *float64           `json:"stemMm,omitempty"`
	SpacerMm         *float64           `json:"spacerMm,omitempty"`
	BarReachCategory legacy.BarCategory `json:"barReachCategory,omitempty"`
	BarReachMm       *float64           `json:"barReachMm,omitempty"`
	SaddleHeightMm   *float64           `json:"saddleHeightMm,omitempty"`
	SaddleSetbackMm  *float64           `json:"saddleSetbackMm,omitempty"`
}

func setupFromBike(bike *models.Bike) *BikeSetup {
	if bike == nil {
		return nil
	}
	setup := &BikeSetup{
		StemMm:          bike.StemMm,
		SpacerMm:        bike.SpacerMm,
		SaddleHeightMm:  bike.SaddleHeightMm,
		SaddleSetbackMm: bike.SaddleSetbackMm,
	}
	if category := legacy.BarCategory(bike.BarReachCategory); category.Valid() {
		mm := legacy.GetBarReachMm(category)
		setup.BarReachCategory = category
		setup.BarReachMm = &mm
	}
	return setup
}
