// internal/workers/cockpit/project-cockpit/models.go
package projectcockpit

import (
	"cockpit-fit-workers/internal/fit/cockpit"
	"cockpit-fit-workers/internal/fit/legacy"
)

// Input carries either a ready VizInput or the flat params it is built from.
// VizInput wins when both are present.
type Input struct {
	RecommendationID string               `json:"recommendationId,omitempty"`
	VizInput         *cockpit.VizInput    `json:"vizInput,omitempty"`
	Params           *cockpit.BuildParams `json:"params,omitempty"`
	Overrides        *OverridesInput      `json:"overrides,omitempty"`
}

// OverridesInput holds the control values that were moved. Missing values
// stay at the recommendation.
type OverridesInput struct {
	StemMm     *float64 `json:"stem,omitempty"`
	SpacersMm  *float64 `json:"spacers,omitempty"`
	BarReachMm *float64 `json:"barReach,omitempty"`
}

type Output struct {
	RecommendationID string             `json:"recommendationId"`
	SvgModel         cockpit.SvgModel   `json:"svgModel"`
	Legend           cockpit.Legend     `json:"legend"`
	Overrides        cockpit.Overrides  `json:"overrides"`
	LiveBarCategory  legacy.BarCategory `json:"liveBarCategory"`
}
