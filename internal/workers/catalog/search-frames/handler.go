// internal/workers/catalog/search-frames/handler.go
package searchframes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cockpit-fit-workers/internal/catalog"
	apperrors "cockpit-fit-workers/internal/common/errors"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/metrics"
	"cockpit-fit-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-frames"
)

var ErrInputMissing = errors.New("FIT_INPUT_INVALID")

// FrameSearcher is satisfied by *catalog.Searcher.
type FrameSearcher interface {
	SearchFrames(ctx context.Context, query string, from, size int) (*catalog.SearchResult, error)
	Index() string
}

type Handler struct {
	config    *Config
	searcher  FrameSearcher
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, searcher FrameSearcher, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		searcher:  searcher,
		validator: validator,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if err := h.validator.ValidateJob(TaskType, job.Variables); err != nil {
		h.failJob(ctx, client, job, start, err)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, start, apperrors.NewParseError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, start, h.mapError(ctx, err))
		return
	}

	h.completeJob(ctx, client, job, start, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInputMissing)
	}
	query := strings.TrimSpace(input.Query)

	result, err := h.searcher.SearchFrames(ctx, query, input.From, input.Size)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("frame search completed", map[string]interface{}{
		"query":  query,
		"hits":   len(result.Frames),
		"total":  result.Total,
		"tookMs": result.TookMs,
	})

	return &Output{
		Frames: result.Frames,
		Total:  result.Total,
		TookMs: result.TookMs,
	}, nil
}

// mapError treats an expired job context as a timeout even when the search
// client did not keep the context error in its chain.
func (h *Handler) mapError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrInputMissing):
		return apperrors.NewFitInputInvalidError(err.Error())
	case errors.Is(err, catalog.ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(h.searcher.Index())
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewSearchTimeoutError("search_frames")
	default:
		return apperrors.NewSearchQueryFailedError("search_frames", err)
	}
}

// completeJob hands the output back to the engine and records the outcome.
func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, start, err)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		metrics.ObserveJob(TaskType, start, string(apperrors.ErrCodeInternal))
		return
	}
	metrics.ObserveJob(TaskType, start, "")
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, err error) {
	code := h.errors.HandleJobError(ctx, client, job, err)
	metrics.ObserveJob(TaskType, start, string(code))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
