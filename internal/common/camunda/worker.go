// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"cockpit-fit-workers/internal/common/config"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/metrics"
	"cockpit-fit-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Job outcomes, as seen from the command the handler sent.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusThrown    = "error_thrown"
	StatusUnsettled = "unsettled"
)

// Instrument wraps a job handler with the active-jobs gauge, a job span and
// the OpenTelemetry job counters. Handlers still settle their own jobs.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		gauge := metrics.WorkerJobsActive.WithLabelValues(taskType)
		gauge.Inc()
		defer gauge.Dec()

		ctx, span := obs.StartJobSpan(context.Background(), taskType, job.Key)
		defer span.End()

		rc := &recordingClient{JobClient: client, status: StatusUnsettled}
		handler(rc, job)

		obs.RecordJobProcessed(ctx, taskType, rc.status)
		obs.RecordJobDuration(ctx, taskType, time.Since(start), rc.status)

		if rc.status == StatusUnsettled {
			logger.WithTrace(ctx, log).Warn("job left unsettled", map[string]interface{}{
				"taskType": taskType,
				"jobKey":   job.Key,
			})
		}
	}
}

// StartWorker opens a job worker for taskType unless it is disabled in config.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs, log)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jw
}

type recordingClient struct {
	worker.JobClient
	status string
}

func (c *recordingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = StatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *recordingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = StatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *recordingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = StatusThrown
	return c.JobClient.NewThrowErrorCommand()
}
