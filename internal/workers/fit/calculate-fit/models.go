// internal/workers/fit/calculate-fit/models.go
package calculatefit

import "cockpit-fit-workers/internal/fit/legacy"

type Input struct {
	Profile  legacy.Profile  `json:"profile"`
	Geometry legacy.Geometry `json:"geometry"`
	Current  *legacy.Setup   `json:"current,omitempty"`
}

type Output struct {
	RecommendationID string                 `json:"recommendationId"`
	Recommendation   legacy.Recommendation  `json:"recommendation"`
	Discomfort       legacy.DiscomfortLevel `json:"discomfort"`
	BarReachRangeMm  [2]int                 `json:"barReachRangeMm"`
}
