// internal/workers/fit/compute-fit-recommendation/handler.go
package computefitrecommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	apperrors "cockpit-fit-workers/internal/common/errors"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/metrics"
	"cockpit-fit-workers/internal/common/validation"
	"cockpit-fit-workers/internal/fit"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "compute-fit-recommendation"
)

var (
	ErrFitInputInvalid      = errors.New("FIT_INPUT_INVALID")
	ErrFitCalculationFailed = errors.New("FIT_CALCULATION_FAILED")
)

type Handler struct {
	config    *Config
	calc      *fit.Calculator
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, calc *fit.Calculator, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		calc:      calc,
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
		h.failJob(ctx, client, job, start, h.mapError(err))
		return
	}

	h.completeJob(ctx, client, job, start, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrFitInputInvalid)
	}

	rec := h.calc.Compute(input.Rider, input.Frame, input.Current)
	if !finite(rec) {
		return nil, fmt.Errorf("%w: non-finite recommendation", ErrFitCalculationFailed)
	}

	metrics.ObserveRecommendation(TaskType, rec.Confidence, rec.Stem.SnappedMm)
	h.logger.Info("fit recommendation computed", map[string]interface{}{
		"targetReachMid": rec.TargetReach.MidMm,
		"snappedStemMm":  rec.Stem.SnappedMm,
		"spacersMm":      rec.Spacers.RecommendedMm,
		"confidence":     rec.Confidence,
		"notes":          len(rec.Notes),
	})

	return &Output{
		RecommendationID: uuid.NewString(),
		Recommendation:   rec,
	}, nil
}

// finite rejects results that cannot be serialized as JSON numbers.
func finite(rec fit.FitRecommendation) bool {
	values := []float64{rec.Confidence, rec.Spacers.RecommendedMm}
	if rec.Spacers.MinMm != nil {
		values = append(values, *rec.Spacers.MinMm)
	}
	if rec.Spacers.MaxMm != nil {
		values = append(values, *rec.Spacers.MaxMm)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (h *Handler) mapError(err error) error {
	switch h.mapErrorToCode(err) {
	case apperrors.ErrCodeFitInputInvalid:
		return apperrors.NewFitInputInvalidError(err.Error())
	case apperrors.ErrCodeFitCalculationFailed:
		return apperrors.NewFitCalculationFailedError(err.Error())
	}
	return err
}

func (h *Handler) mapErrorToCode(err error) apperrors.ErrorCode {
	if errors.Is(err, ErrFitInputInvalid) {
		return apperrors.ErrCodeFitInputInvalid
	} else if errors.Is(err, ErrFitCalculationFailed) {
		return apperrors.ErrCodeFitCalculationFailed
	}
	return apperrors.ErrCodeInternal
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
