// internal/workers/cockpit/project-cockpit/handler.go
package projectcockpit

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
	"cockpit-fit-workers/internal/fit/cockpit"
	"cockpit-fit-workers/internal/fit/legacy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "project-cockpit"
)

var (
	ErrVizInputMissing  = errors.New("FIT_INPUT_INVALID")
	ErrProjectionFailed = errors.New("PROJECTION_FAILED")
)

type Handler struct {
	config    *Config
	projector *cockpit.Projector
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, projector *cockpit.Projector, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		projector: projector,
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
		return nil, fmt.Errorf("%w: input cannot be nil", ErrVizInputMissing)
	}

	var viz cockpit.VizInput
	switch {
	case input.VizInput != nil:
		viz = *input.VizInput
	case input.Params != nil:
		viz = h.projector.BuildVizInput(*input.Params)
	default:
		return nil, fmt.Errorf("%w: vizInput or params is required", ErrVizInputMissing)
	}

	overrides := mergeOverrides(cockpit.DefaultOverrides(viz), input.Overrides)
	model := h.projector.Project(viz, overrides)
	if s := model.Scale.XScale; s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return nil, fmt.Errorf("%w: invalid scale %v", ErrProjectionFailed, s)
	}

	id := input.RecommendationID
	if id == "" {
		id = uuid.NewString()
	}

	h.logger.Info("cockpit projected", map[string]interface{}{
		"recommendationId": id,
		"reachDeltaMm":     model.Deltas.Reach,
		"dropDeltaMm":      model.Deltas.Drop,
		"reachColor":       string(model.Deltas.ReachColor),
		"dropColor":        string(model.Deltas.DropColor),
	})

	return &Output{
		RecommendationID: id,
		SvgModel:         model,
		Legend:           cockpit.BuildLegend(model.Deltas),
		Overrides:        overrides,
		LiveBarCategory:  legacy.BarCategoryForReach(overrides.BarReachMm),
	}, nil
}

func mergeOverrides(defaults cockpit.Overrides, in *OverridesInput) cockpit.Overrides {
	if in == nil {
		return defaults
	}
	if in.StemMm != nil {
		defaults.StemMm = *in.StemMm
	}
	if in.SpacersMm != nil {
		defaults.SpacersMm = *in.SpacersMm
	}
	if in.BarReachMm != nil {
		defaults.BarReachMm = *in.BarReachMm
	}
	return defaults
}

func (h *Handler) mapError(err error) error {
	if errors.Is(err, ErrProjectionFailed) {
		return apperrors.NewProjectionFailedError(err.Error())
	} else if errors.Is(err, ErrVizInputMissing) {
		return apperrors.NewFitInputInvalidError(err.Error())
	}
	return err
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
