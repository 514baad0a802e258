// internal/workers/fit/calculate-fit-v1/handler.go
package calculatefitv1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "cockpit-fit-workers/internal/common/errors"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/metrics"
	"cockpit-fit-workers/internal/common/validation"
	"cockpit-fit-workers/internal/fit"
	"cockpit-fit-workers/internal/fit/legacy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "calculate-fit-v1"
)

var (
	ErrFitInputInvalid = errors.New("FIT_INPUT_INVALID")
)

type Handler struct {
	config    *Config
	adapter   *legacy.Adapter
	hood      fit.HoodGeometry
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, calc *fit.Calculator, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		adapter:   legacy.NewAdapter(calc),
		hood:      calc.Hood(),
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
		if errors.Is(err, ErrFitInputInvalid) {
			err = apperrors.NewFitInputInvalidError(err.Error())
		}
		h.failJob(ctx, client, job, start, err)
		return
	}

	h.completeJob(ctx, client, job, start, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrFitInputInvalid)
	}

	result := h.adapter.Calculate(input.FitInput)
	metrics.ObserveRecommendation(TaskType, float64(result.Confidence)/100, result.IdealStemMm)

	output := &Output{
		RecommendationID: uuid.NewString(),
		Result:           result,
	}
	if input.ResolveBar {
		resolved := legacy.ResolveStemAndBar(
			float64(result.TargetReachMm),
			input.FrameReachMm,
			h.hood.EffectiveReachOffsetMm,
			input.BarReachCategory,
		)
		output.StemBar = &resolved
	}

	h.logger.Info("legacy fit calculated", map[string]interface{}{
		"targetReachMm": result.TargetReachMm,
		"idealStemMm":   result.IdealStemMm,
		"barCategory":   string(result.RecommendedBarReachCategory),
		"reachDeltaMm":  result.ReachDeltaMm,
		"confidence":    result.Confidence,
		"flags":         result.Flags,
	})
	return output, nil
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
