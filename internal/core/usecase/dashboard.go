package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/core/ports"
	"github.com/kirillkom/framework-progress/internal/core/progress"
)

const defaultFetchConcurrency = 8

type DashboardUseCase struct {
	source      ports.ProgressSource
	aggregator  *progress.Aggregator
	observer    ports.AggregationObserver
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

func NewDashboardUseCase(
	source ports.ProgressSource,
	aggregator *progress.Aggregator,
	observer ports.AggregationObserver,
	logger *slog.Logger,
	concurrency int,
) *DashboardUseCase {
	if aggregator == nil {
		aggregator = progress.NewAggregator(logger, nil, nil)
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}
	return &DashboardUseCase{
		source:      source,
		aggregator:  aggregator,
		observer:    observer,
		logger:      logger,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type fetchResult struct {
	fetch progress.Fetch
	raw   []byte
	err   error
}

// BuildDashboard fetches every sub-resource of every framework card
// concurrently. A failed fetch only zeroes its own section; it never
// cancels sibling fetches.
func (uc *DashboardUseCase) BuildDashboard(ctx context.Context, projectID int) (*domain.Dashboard, error) {
	if projectID <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "build dashboard", fmt.Errorf("project id must be positive, got %d", projectID))
	}

	instances, err := uc.source.ProjectFrameworks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project frameworks: %w", err)
	}

	results := make([][]fetchResult, len(instances))
	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, instance := range instances {
		plan := progress.PlanFor(uc.aggregator.FamilyOf(instance), instance.ProjectFrameworkID)
		results[i] = make([]fetchResult, len(plan))
		for j, fetch := range plan {
			g.Go(func() error {
				raw, err := uc.source.Fetch(ctx, fetch.Route)
				// A response for a request that is no longer wanted is dropped.
				if ctx.Err() != nil {
					return nil
				}
				results[i][j] = fetchResult{fetch: fetch, raw: raw, err: err}
				return nil
			})
		}
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cards := make([]domain.FrameworkCard, 0, len(instances))
	for i, instance := range instances {
		cards = append(cards, uc.buildCard(instance, results[i]))
	}

	return &domain.Dashboard{
		ProjectID:   projectID,
		Cards:       cards,
		GeneratedAt: uc.now(),
	}, nil
}

func (uc *DashboardUseCase) buildCard(instance domain.FrameworkInstance, results []fetchResult) domain.FrameworkCard {
	family := uc.aggregator.FamilyOf(instance)
	payloads := make(map[progress.FetchKey][]byte, len(results))
	failed := 0
	for _, r := range results {
		uc.observer.ObserveFetch(family, string(r.fetch.Key), r.err)
		if r.err != nil {
			failed++
			uc.logger.Error("framework_fetch_failed",
				"framework", instance.FrameworkName,
				"project_framework_id", instance.ProjectFrameworkID,
				"route", r.fetch.Route,
				"error", r.err,
			)
			continue
		}
		payloads[r.fetch.Key] = r.raw
	}

	aggregated := uc.aggregator.Build(instance, payloads)
	card := progress.BuildCard(aggregated, progress.StateOf(aggregated, len(results), failed))
	uc.observer.ObserveCard(card)
	return card
}

type noopObserver struct{}

func (noopObserver) ObserveFetch(domain.Family, string, error) {}
func (noopObserver) ObserveCard(domain.FrameworkCard)          {}
