package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/framework-progress/internal/config"
	"github.com/kirillkom/framework-progress/internal/core/ports"
	"github.com/kirillkom/framework-progress/internal/core/progress"
	"github.com/kirillkom/framework-progress/internal/core/usecase"
	"github.com/kirillkom/framework-progress/internal/infrastructure/compliance"
	"github.com/kirillkom/framework-progress/internal/infrastructure/queue/nats"
	"github.com/kirillkom/framework-progress/internal/infrastructure/report/xlsx"
	"github.com/kirillkom/framework-progress/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/framework-progress/internal/infrastructure/resilience"
	"github.com/kirillkom/framework-progress/internal/infrastructure/storage/localfs"
)

// Options selects which infrastructure a binary needs. The dashboard
// pipeline is always built; Postgres and NATS are only dialed on request.
type Options struct {
	Logger      *slog.Logger
	Observer    ports.AggregationObserver
	BreakerHook resilience.StateChangeHook

	Navigation bool
	Reports    bool
}

type App struct {
	Config config.Config

	Dashboards ports.DashboardService
	Navigation ports.NavigationService
	Reports    *usecase.ReportUseCase
	Queue      ports.ReportQueue

	closers []func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{Config: cfg}

	frameworkIDs, err := config.LoadFrameworkRegistry(cfg.FrameworkRegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load framework registry: %w", err)
	}
	families := progress.NewDiscriminator(frameworkIDs)
	aggregator := progress.NewAggregator(logger, families, progress.DefaultApproximation())

	executorOpts := []resilience.Option{resilience.WithLogger(logger)}
	if opts.BreakerHook != nil {
		executorOpts = append(executorOpts, resilience.WithStateChangeHook(opts.BreakerHook))
	}
	executor := resilience.NewExecutor(resilienceConfig(cfg), executorOpts...)

	source := compliance.New(cfg.ComplianceAPIURL, compliance.Options{
		Token:              cfg.ComplianceAPIToken,
		Timeout:            time.Duration(cfg.ComplianceAPITimeoutSeconds) * time.Second,
		ResilienceExecutor: executor,
	})
	dashboards := usecase.NewDashboardUseCase(source, aggregator, opts.Observer, logger, cfg.FetchConcurrency)
	app.Dashboards = dashboards

	if opts.Navigation {
		db, err := postgres.OpenDB(ctx, cfg.PostgresDSN, postgres.PoolOptions{})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		app.closers = append(app.closers, func() { _ = db.Close() })

		repo := postgres.NewNavigationRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		app.Navigation = usecase.NewNavigationUseCase(repo, families)
	}

	if opts.Reports {
		storage, err := localfs.New(cfg.StoragePath)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init object storage: %w", err)
		}

		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init report queue: %w", err)
		}
		app.closers = append(app.closers, queue.Close)

		app.Queue = queue
		app.Reports = usecase.NewReportUseCase(dashboards, queue, storage, xlsx.NewRenderer())
	}

	return app, nil
}

func resilienceConfig(cfg config.Config) resilience.Config {
	out := resilience.DefaultConfig()
	out.Retry.MaxAttempts = cfg.UpstreamRetryMaxAttempts
	out.Breaker.Enabled = cfg.UpstreamBreakerEnabled
	if cfg.UpstreamBreakerMinRequests > 0 {
		out.Breaker.MinRequests = uint32(cfg.UpstreamBreakerMinRequests)
	}
	out.Breaker.FailureRatio = cfg.UpstreamBreakerFailureRatio
	out.Breaker.OpenTimeout = time.Duration(cfg.UpstreamBreakerOpenTimeoutSeconds) * time.Second
	return out
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
