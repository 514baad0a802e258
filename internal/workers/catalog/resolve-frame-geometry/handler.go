// internal/workers/catalog/resolve-frame-geometry/handler.go
package resolveframegeometry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cockpit-fit-workers/internal/catalog"
	apperrors "cockpit-fit-workers/internal/common/errors"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/metrics"
	"cockpit-fit-workers/internal/common/validation"
	"cockpit-fit-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "resolve-frame-geometry"
)

var (
	ErrMissingIdentifier = errors.New("FIT_INPUT_INVALID")
)

// GeometryResolver is satisfied by *catalog.Resolver.
type GeometryResolver interface {
	ForBike(ctx context.Context, bikeID, userID string) (catalog.ResolvedGeometry, *models.Bike, error)
	ForFrame(ctx context.Context, frameID string) (catalog.ResolvedGeometry, error)
}

type Handler struct {
	config    *Config
	resolver  GeometryResolver
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, resolver GeometryResolver, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		resolver:  resolver,
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
		h.failJob(ctx, client, job, start, h.mapError(err, &input))
		return
	}

	h.completeJob(ctx, client, job, start, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrMissingIdentifier)
	}
	switch {
	case input.BikeID != "" && input.UserID != "":
		resolved, bike, err := h.resolver.ForBike(ctx, input.BikeID, input.UserID)
		if err != nil {
			return nil, err
		}
		h.logger.Info("bike geometry resolved", map[string]interface{}{
			"bikeId": input.BikeID,
			"source": string(resolved.Source),
		})
		return &Output{
			Frame:        resolved.Geometry,
			Source:       resolved.Source,
			CatalogFrame: resolved.Frame,
			Setup:        setupFromBike(bike),
		}, nil

	case input.FrameID != "":
		resolved, err := h.resolver.ForFrame(ctx, input.FrameID)
		if err != nil {
			return nil, err
		}
		return &Output{
			Frame:        resolved.Geometry,
			Source:       resolved.Source,
			CatalogFrame: resolved.Frame,
		}, nil

	default:
		return nil, fmt.Errorf("%w: bikeId and userId, or frameId, are required", ErrMissingIdentifier)
	}
}

func (h *Handler) mapError(err error, input *Input) error {
	switch {
	case errors.Is(err, ErrMissingIdentifier):
		return apperrors.NewFitInputInvalidError(err.Error())
	case errors.Is(err, catalog.ErrBikeNotFound):
		return apperrors.NewBikeNotFoundError(input.BikeID)
	case errors.Is(err, catalog.ErrFrameNotFound):
		return apperrors.NewFrameNotFoundError(input.FrameID)
	case errors.Is(err, catalog.ErrGeometryUnavailable):
		return apperrors.NewFrameGeometryUnavailableError(input.BikeID)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError(h.queryType(input))
	default:
		return apperrors.NewQueryExecutionFailedError(h.queryType(input), err)
	}
}

func (h *Handler) queryType(input *Input) string {
	if input.BikeID != "" {
		return "get_bike"
	}
	return "get_frame"
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
