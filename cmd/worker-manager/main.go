// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cockpit-fit-workers/internal/catalog"
	"cockpit-fit-workers/internal/common/camunda"
	"cockpit-fit-workers/internal/common/config"
	"cockpit-fit-workers/internal/common/database"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/common/observability"
	"cockpit-fit-workers/internal/common/validation"
	"cockpit-fit-workers/internal/fit"
	"cockpit-fit-workers/internal/fit/cockpit"

	// Fit workers
	cf "cockpit-fit-workers/internal/workers/fit/calculate-fit"
	cfv1 "cockpit-fit-workers/internal/workers/fit/calculate-fit-v1"
	cfr "cockpit-fit-workers/internal/workers/fit/compute-fit-recommendation"

	// Cockpit workers
	pc "cockpit-fit-workers/internal/workers/cockpit/project-cockpit"

	// Catalog workers
	rfg "cockpit-fit-workers/internal/workers/catalog/resolve-frame-geometry"
	sf "cockpit-fit-workers/internal/workers/catalog/search-frames"
)

// connectRetry is used for the backing stores; the broker has its own budget.
var connectRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(logger.NewStructured("info", "console"), "config load failed", err)
	}

	log := logger.NewService(cfg.Logging.Level, cfg.Logging.Format, cfg.App.Name, cfg.App.Environment)
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name, observability.Options{
		TracingEnabled: cfg.Observability.TracingEnabled,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.UsePlaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		fatal(log, "zeebe client failed", err)
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fatal(log, "postgres init failed", err)
	}
	mustConnect(ctx, log, "postgres", pg)
	defer pg.Close()

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	mustConnect(ctx, log, "redis", rdb)
	defer rdb.Close()

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		fatal(log, "elasticsearch init failed", err)
	}
	mustConnect(ctx, log, "elasticsearch", es)

	// --- Catalog ---
	repo := catalog.NewRepository(pg.DB)
	if err := repo.Migrate(ctx); err != nil {
		fatal(log, "catalog migration failed", err)
	}
	cache := catalog.NewCache(rdb.Client, cfg.Fit.Catalog.CacheTTLDuration())
	resolver := catalog.NewResolver(repo, cache, log.WithFields(map[string]interface{}{"component": "catalog"}))
	searcher := catalog.NewSearcher(es.Client, cfg.Fit.Catalog.FramesIndex, cfg.Fit.Catalog.SearchMaxSize)
	if err := searcher.EnsureIndex(ctx); err != nil {
		// Search fails with INDEX_NOT_FOUND until the index exists; the rest keeps working.
		log.Warn("frame index not ensured", map[string]interface{}{"error": err.Error()})
	}

	// --- Fit core ---
	validator := validation.MustBuiltin()
	hood := cfg.Fit.Hood.Geometry()
	calc := fit.NewCalculator(hood)
	projector := cockpit.NewProjector(hood)

	// --- Workers ---
	workers := []struct {
		taskType string
		handler  func(config.WorkerConfig) worker.JobHandler
	}{
		{cfr.TaskType, func(w config.WorkerConfig) worker.JobHandler {
			return cfr.NewHandler(cfr.LoadConfig(w), calc, validator, log).Handle
		}},
		{cfv1.TaskType, func(w config.WorkerConfig) worker.JobHandler {
			return cfv1.NewHandler(cfv1.LoadConfig(w), calc, validator, log).Handle
		}},
		{cf.TaskType, func(w config.WorkerConfig) worker.JobHandler {
			return cf.NewHandler(cf.LoadConfig(w), validator, log).Handle
		}},
		{pc.TaskType, func(w config.WorkerConfig) worker.JobHandler {
			return pc.NewHandler(pc.LoadConfig(w), projector, validator, log).Handle
		}},
		{rfg.TaskType, func(w config.WorkerConfig) worker.JobHandler {
			return rfg.NewHandler(rfg.LoadConfig(w), resolver, validator, log).Handle
		}},
		{sf.TaskType, func(w config.WorkerConfig) worker.JobHandler {
			return sf.NewHandler(sf.LoadConfig(w), searcher, validator, log).Handle
		}},
	}

	var jobWorkers []worker.JobWorker
	for _, w := range workers {
		wcfg := config.GetWorkerConfig(cfg, w.taskType)
		if jw := camunda.StartWorker(zeebe.GetClient(), w.taskType, wcfg, w.handler(wcfg), obs, log); jw != nil {
			jobWorkers = append(jobWorkers, jw)
		}
	}
	log.Info("workers registered", map[string]interface{}{"count": len(jobWorkers)})

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	checks := []database.Check{
		{Name: "zeebe", Pinger: zeebe},
		{Name: "postgres", Pinger: pg},
		{Name: "redis", Pinger: rdb},
		{Name: "elasticsearch", Pinger: es},
	}
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		report := database.CheckAll(checkCtx, checks...)
		body := report.Statuses()
		if !report.Healthy() {
			body["status"] = "not_ready"
			writeStatus(w, http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		writeStatus(w, http.StatusOK, body)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Observability.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	for _, jw := range jobWorkers {
		jw.Close()
		jw.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped", nil)
}

func mustConnect(ctx context.Context, log logger.Logger, name string, store database.Pinger) {
	err := camunda.Retry(ctx, connectRetry, store.Ping, func(attempt int, err error, delay time.Duration) {
		log.Warn(name+" not reachable, retrying", map[string]interface{}{
			"attempt":     attempt,
			"nextRetryIn": delay.String(),
			"error":       err.Error(),
		})
	})
	if err != nil {
		fatal(log, name+" connection failed", err)
	}
	log.Info(name+" connected", nil)
}

func fatal(log logger.Logger, msg string, err error) {
	log.Error(msg, map[string]interface{}{"error": err.Error()})
	os.Exit(1)
}

func writeStatus(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
