package catalog

import (
	"testing"

	"cockpit-fit-workers/internal/fit"
	"cockpit-fit-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveFrameGeometry(t *testing.T) {
	catalogFrame := &models.Frame{ID: "f-1", Brand: "Trek", Model: "Emonda", SizeLabel: "54",
		StackMm: 545, ReachMm: 380, HeadTubeLengthMm: fit.Float(135)}

	tests := []struct {
		name           string
		bike           models.Bike
		frame          *models.Frame
		expectedOK     bool
		validateOutput func(t *testing.T, got ResolvedGeometry)
	}{
		{
			name:       "manual geometry wins over catalog",
			bike:       models.Bike{ManualStackMm: fit.Float(600), ManualReachMm: fit.Float(385), ManualWheelbaseMm: fit.Float(1010)},
			frame:      catalogFrame,
			expectedOK: true,
			validateOutput: func(t *testing.T, got ResolvedGeometry) {
				assert.Equal(t, SourceManual, got.Source)
				assert.Equal(t, 600.0, got.Geometry.StackMm)
				assert.Equal(t, 385.0, got.Geometry.ReachMm)
				assert.Equal(t, 1010.0, *got.Geometry.WheelbaseMm)
				assert.Nil(t, got.Frame)
			},
		},
		{
			name:       "partial manual geometry falls back to catalog",
			bike:       models.Bike{ManualStackMm: fit.Float(600)},
			frame:      catalogFrame,
			expectedOK: true,
			validateOutput: func(t *testing.T, got ResolvedGeometry) {
				assert.Equal(t, SourceCatalog, got.Source)
				assert.Equal(t, 545.0, got.Geometry.StackMm)
				assert.Equal(t, 135.0, *got.Geometry.HeadTubeLengthMm)
				assert.Same(t, catalogFrame, got.Frame)
			},
		},
		{
			name:       "nothing to resolve",
			bike:       models.Bike{ManualReachMm: fit.Float(380)},
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveFrameGeometry(tt.bike, tt.frame)
			assert.Equal(t, tt.expectedOK, ok)
			if tt.validateOutput != nil {
				tt.validateOutput(t, got)
			}
		})
	}
}
