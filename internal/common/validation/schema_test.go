package validation

import (
	"testing"

	apperrors "cockpit-fit-workers/internal/common/errors"
	"cockpit-fit-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := MustBuiltin()

	tests := []struct {
		name           string
		taskType       string
		variables      string
		validateResult func(t *testing.T, r *ValidationResult)
	}{
		{
			name:      "valid legacy input",
			taskType:  "calculate-fit-v1",
			variables: `{"torsoCm":60,"armCm":62,"flexibilityLevel":2,"ridingStyle":"endurance","frameReachMm":386,"stemMm":90,"spacerMm":20,"barReachCategory":"med"}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.Valid)
				assert.Empty(t, r.Errors)
			},
		},
		{
			name:      "torso out of range",
			taskType:  "calculate-fit-v1",
			variables: `{"torsoCm":-5,"armCm":62,"frameReachMm":386,"stemMm":90,"barReachCategory":"med"}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				assert.True(t, r.HasErrors("torsoCm"))
				assert.Equal(t, "NUMBER_GTE", r.Errors[0].Code)
			},
		},
		{
			name:      "unknown bar category",
			taskType:  "calculate-fit-v1",
			variables: `{"torsoCm":60,"armCm":62,"frameReachMm":386,"stemMm":90,"barReachCategory":"xl"}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				assert.True(t, r.HasErrors("barReachCategory"))
			},
		},
		{
			name:      "nested rider flexibility",
			taskType:  "compute-fit-recommendation",
			variables: `{"rider":{"torsoLengthCm":60,"armLengthCm":62,"flexibility":"bendy"},"frame":{"stackMm":590,"reachMm":386},"current":{"stemLengthMm":90,"barReachMm":78}}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				assert.Len(t, r.GetErrorsForField("rider"), 1)
				assert.True(t, r.HasErrors("rider.flexibility"))
			},
		},
		{
			name:      "resolve needs bike or frame",
			taskType:  "resolve-frame-geometry",
			variables: `{"userId":"u-1"}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
			},
		},
		{
			name:      "resolve by frame id",
			taskType:  "resolve-frame-geometry",
			variables: `{"frameId":"f-1"}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.Valid)
			},
		},
		{
			name:      "task without schema",
			taskType:  "unregistered",
			variables: `not even json`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.Valid)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Validate(tt.taskType, tt.variables)
			require.NoError(t, err)
			tt.validateResult(t, result)
		})
	}
}

func TestValidateJob(t *testing.T) {
	v := MustBuiltin()

	err := v.ValidateJob("search-frames", `{"query":"tarmac","size":500}`)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeFitInputInvalid, stdErr.Code)
	assert.Contains(t, stdErr.Details, "size")
	assert.NotNil(t, stdErr.Metadata["validationErrors"])

	err = v.ValidateJob("search-frames", `{"query":`)
	stdErr, ok = apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeParseError, stdErr.Code)

	assert.NoError(t, v.ValidateJob("search-frames", `{"query":"tarmac","from":0,"size":20}`))
}

func TestNewValidator_BadSchema(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{
		{ID: "a.b.c", TaskType: "broken", InputSchema: map[string]interface{}{"type": 12}},
	}}
	_, err := NewValidator(reg)
	assert.Error(t, err)
}
