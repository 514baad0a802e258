// internal/workers/fit/compute-fit-recommendation/models.go
package computefitrecommendation

import "cockpit-fit-workers/internal/fit"

type Input struct {
	Rider   fit.RiderProfile  `json:"rider"`
	Frame   fit.FrameGeometry `json:"frame"`
	Current fit.CurrentSetup  `json:"current"`
}

type Output struct {
	RecommendationID string                `json:"recommendationId"`
	Recommendation   fit.FitRecommendation `json:"recommendation"`
}
