package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/framework-progress/internal/bootstrap"
	"github.com/kirillkom/framework-progress/internal/config"
	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/observability/logging"
	"github.com/kirillkom/framework-progress/internal/observability/metrics"
)

const reportTimeout = 2 * time.Minute

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Logger:      logger,
		Observer:    workerMetrics,
		BreakerHook: workerMetrics.ObserveBreakerStateChange,
		Reports:     true,
	})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeReportRequested(ctx, func(handlerCtx context.Context, req domain.ReportRequest) error {
		start := time.Now()
		if !req.RequestedAt.IsZero() {
			workerMetrics.ObserveQueueLag("worker", start.Sub(req.RequestedAt))
		}
		workerMetrics.StartReport()

		processCtx, cancel := context.WithTimeout(handlerCtx, reportTimeout)
		defer cancel()
		err := app.Reports.ProcessReport(processCtx, req)
		workerMetrics.FinishReport("worker", time.Since(start), err)
		if err == nil {
			logger.Info("report_rendered", "report_id", req.ReportID, "project_id", req.ProjectID, "duration_ms", time.Since(start).Milliseconds())
		}
		return err
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
