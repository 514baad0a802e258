// internal/workers/fit/compute-fit-recommendation/handler_test.go
package computefitrecommendation

import (
	"context"
	"testing"
	"time"

	"cockpit-fit-workers/internal/common/camunda/jobtest"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/validation"
	"cockpit-fit-workers/internal/fit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baselineVariables = `{
	"rider": {"heightCm": 175, "inseamCm": 82, "torsoLengthCm": 60, "armLengthCm": 65, "flexibility": "medium", "ridingStyle": "endurance"},
	"frame": {"stackMm": 590, "reachMm": 386, "headTubeAngleDeg": 72.5},
	"current": {"stemLengthMm": 90, "spacerStackMm": 20, "barReachMm": 80, "hoodReachOffsetMm": 10}
}`

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(
		&Config{Timeout: 5 * time.Second},
		fit.NewCalculator(fit.DefaultHoodGeometry()),
		validation.MustBuiltin(),
		logger.NewTestLogger(t),
	)
}

func baselineInput() *Input {
	return &Input{
		Rider: fit.RiderProfile{
			TorsoLengthCm: 60,
			ArmLengthCm:   65,
			Flexibility:   fit.FlexibilityMedium,
			RidingStyle:   fit.RidingStyleEndurance,
		},
		Frame: fit.FrameGeometry{StackMm: 590, ReachMm: 386},
		Current: fit.CurrentSetup{
			StemLengthMm:      90,
			SpacerStackMm:     fit.Float(20),
			BarReachMm:        80,
			HoodReachOffsetMm: fit.Float(10),
		},
	}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		modify         func(in *Input)
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "baseline rider",
			validateOutput: func(t *testing.T, output *Output) {
				rec := output.Recommendation
				assert.Equal(t, fit.ReachBand{MinMm: 481, MidMm: 486, MaxMm: 491}, rec.TargetReach)
				assert.Equal(t, 50, rec.Stem.SnappedMm)
				assert.Equal(t, 1.0, rec.Confidence)
				assert.Empty(t, rec.Notes)
			},
		},
		{
			name: "race rider on a high flexibility day",
			modify: func(in *Input) {
				in.Rider.RidingStyle = fit.RidingStyleRace
				in.Rider.Flexibility = fit.FlexibilityHigh
			},
			validateOutput: func(t *testing.T, output *Output) {
				rec := output.Recommendation
				assert.Equal(t, 511, rec.TargetReach.MidMm)
				assert.Equal(t, fit.DropBand{MinMm: 50, MaxMm: 80}, rec.TargetDrop)
			},
		},
		{
			name: "missing bar reach lowers confidence",
			modify: func(in *Input) {
				in.Current.BarReachMm = 0
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 0.85, output.Recommendation.Confidence)
				assert.Contains(t, output.Recommendation.Notes, "Missing bar reach reduces confidence")
			},
		},
		{
			name: "no spacer stack falls back",
			modify: func(in *Input) {
				in.Current.SpacerStackMm = nil
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Nil(t, output.Recommendation.Spacers.MinMm)
				assert.Nil(t, output.Recommendation.Spacers.MaxMm)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)
			input := baselineInput()
			if tt.modify != nil {
				tt.modify(input)
			}

			output, err := h.Execute(context.Background(), input)

			require.NoError(t, err)
			_, err = uuid.Parse(output.RecommendationID)
			assert.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_NilInput(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), nil)

	assert.ErrorIs(t, err, ErrFitInputInvalid)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name          string
		variables     string
		expectedError string
		validateVars  func(t *testing.T, vars map[string]interface{})
	}{
		{
			name:      "completes with recommendation",
			variables: baselineVariables,
			validateVars: func(t *testing.T, vars map[string]interface{}) {
				assert.NotEmpty(t, vars["recommendationId"])
				rec := vars["recommendation"].(map[string]interface{})
				stem := rec["stem"].(map[string]interface{})
				assert.Equal(t, 50.0, stem["snappedMm"])
				assert.Equal(t, []interface{}{50.0, 60.0}, stem["allowedMm"])
			},
		},
		{
			name:          "torso out of range",
			variables:     `{"rider": {"torsoLengthCm": 30, "armLengthCm": 65}, "frame": {"stackMm": 590, "reachMm": 386}, "current": {}}`,
			expectedError: "FIT_INPUT_INVALID",
		},
		{
			name:          "unknown riding style",
			variables:     `{"rider": {"torsoLengthCm": 60, "armLengthCm": 65, "ridingStyle": "gravel"}, "frame": {}, "current": {}}`,
			expectedError: "FIT_INPUT_INVALID",
		},
		{
			name:          "missing frame",
			variables:     `{"rider": {"torsoLengthCm": 60, "armLengthCm": 65}, "current": {}}`,
			expectedError: "FIT_INPUT_INVALID",
		},
		{
			name:          "variables are not json",
			variables:     `{"rider": `,
			expectedError: "PARSE_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)
			client := jobtest.NewClient()

			h.Handle(client, jobtest.NewJob(1, TaskType, tt.variables))

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, jobtest.ThrownCode(t, client))
				assert.Empty(t, client.Gateway.Failed())
				return
			}
			tt.validateVars(t, jobtest.CompletedVariables(t, client))
		})
	}
}
