// internal/workers/fit/calculate-fit-v1/models.go
package calculatefitv1

import "cockpit-fit-workers/internal/fit/legacy"

// Input is the flat legacy call shape. ResolveBar additionally re-solves the
// stem after a bar category swap.
type Input struct {
	legacy.FitInput
	ResolveBar bool `json:"resolveBar,omitempty"`
}

type Output struct {
	RecommendationID string                    `json:"recommendationId"`
	Result           legacy.FitResult          `json:"result"`
	StemBar          *legacy.StemBarResolution `json:"stemBar,omitempty"`
}
