package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	entries []map[string]interface{}
}

func (l *recordingLogger) Error(_ string, fields map[string]interface{}) {
	l.entries = append(l.entries, fields)
}

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeElasticsearchConnectionFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeFitInputInvalid, 0},
		{ErrCodeParseError, 0},
		{ErrCodeFrameNotFound, 0},
		{ErrCodeFrameGeometryUnavailable, 0},
		{ErrCodeIndexNotFound, 0},
		{"SOMETHING_ELSE", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewQueryExecutionFailedError("get_frame", stderrors.New("connection reset")).
		WithMetadata("frameId", "f-1")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Contains(t, bpmnErr.Details, "get_frame")

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
	assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["originalErrorCode"])
	assert.Equal(t, "f-1", vars["frameId"])
	assert.NotEmpty(t, vars["timestamp"])
}

func TestConvertToBPMNError_NonRetryable(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewFitInputInvalidError("torsoCm: must be >= 40"))

	assert.Equal(t, "FIT_INPUT_INVALID", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestConvertToBPMNError_UnmappedCodePassesThrough(t *testing.T) {
	bpmnErr := ConvertToBPMNError(&StandardError{Code: "CUSTOM", Message: "x"})
	assert.Equal(t, "CUSTOM", bpmnErr.Code)
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", NewFrameNotFoundError("f-9"))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeFrameNotFound, stdErr.Code)

	_, ok = AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestNormalizeError(t *testing.T) {
	h := NewErrorHandler(&recordingLogger{})

	stdErr := h.normalizeError(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)
	assert.False(t, stdErr.Retryable)

	original := NewSearchTimeoutError("search_frames")
	assert.Same(t, original, h.normalizeError(fmt.Errorf("wrapped: %w", original)))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeFitInputInvalid, "FIT"},
		{ErrCodeFitCalculationFailed, "FIT"},
		{ErrCodeProjectionFailed, "PROJECTION"},
		{ErrCodeFrameNotFound, "CATALOG"},
		{ErrCodeBikeNotFound, "CATALOG"},
		{ErrCodeFrameGeometryUnavailable, "CATALOG"},
		{ErrCodeQueryExecutionFailed, "DATABASE"},
		{ErrCodeDatabaseConnectionFailed, "DATABASE"},
		{ErrCodeSearchQueryFailed, "SEARCH"},
		{ErrCodeIndexNotFound, "SEARCH"},
		{ErrCodeParseError, "VALIDATION"},
		{ErrCodeInternal, "OTHER"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetErrorCategory(tt.code), string(tt.code))
	}
}
