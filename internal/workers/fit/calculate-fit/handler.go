// internal/workers/fit/calculate-fit/handler.go
package calculatefit

import (
	"context"
	"encoding/json"
	"time"

	"cockpit-fit-workers/internal/common/errors"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/metrics"
	"cockpit-fit-workers/internal/common/validation"
	"cockpit-fit-workers/internal/fit/legacy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "calculate-fit"

// Handler runs the predecessor calculator. It has no I/O, so the only
// failures are undecodable or invalid variables.
type Handler struct {
	config    *Config
	validator *validation.Validator
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		validator: validator,
		errors:    errors.NewErrorHandler(log),
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

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, start, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, start, err)
		return
	}

	h.completeJob(ctx, client, job, start, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := h.validator.ValidateJob(TaskType, job.Variables); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewFitInputInvalidError("input cannot be nil")
	}
	rec := legacy.CalculateFit(input.Profile, input.Geometry, input.Current)
	discomfort := legacy.GetDiscomfortLevel(rec.DiscomfortScore)

	metrics.ObserveRecommendation(TaskType, 1-float64(rec.DiscomfortScore)/100, rec.IdealStemMm)
	h.logger.Info("predecessor fit calculated", map[string]interface{}{
		"targetReachMm":   rec.TargetReachMm,
		"targetStackMm":   rec.TargetStackMm,
		"idealStemMm":     rec.IdealStemMm,
		"idealSpacerMm":   rec.IdealSpacerMm,
		"discomfortScore": rec.DiscomfortScore,
		"discomfortLevel": discomfort.Level,
	})

	return &Output{
		RecommendationID: uuid.NewString(),
		Recommendation:   rec,
		Discomfort:       discomfort,
		BarReachRangeMm:  legacy.GetBarReachRange(rec.IdealBarReachCategory),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
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
		metrics.ObserveJob(TaskType, start, string(errors.ErrCodeInternal))
		return
	}
	metrics.ObserveJob(TaskType, start, "")
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, err error) {
	code := h.errors.HandleJobError(ctx, client, job, err)
	metrics.ObserveJob(TaskType, start, string(code))
}
