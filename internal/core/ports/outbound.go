package ports

import (
	"context"
	"io"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// ProgressSource reads raw payloads from the compliance backend.
type ProgressSource interface {
	Fetch(ctx context.Context, route string) ([]byte, error)
	ProjectFrameworks(ctx context.Context, projectID int) ([]domain.FrameworkInstance, error)
}

// NavigationStore persists navigation state as storage key/value entries.
type NavigationStore interface {
	Load(ctx context.Context, userID string) (map[string]string, error)
	Save(ctx context.Context, userID string, entries map[string]string) error
}

// ReportQueue publishes/consumes report export requests.
type ReportQueue interface {
	PublishReportRequested(ctx context.Context, req domain.ReportRequest) error
	SubscribeReportRequested(ctx context.Context, handler func(context.Context, domain.ReportRequest) error) error
}

// ObjectStorage stores rendered reports.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ReportRenderer serializes a dashboard into a downloadable document.
type ReportRenderer interface {
	Render(dashboard *domain.Dashboard, w io.Writer) error
}

// AggregationObserver receives per-card outcomes for metrics.
type AggregationObserver interface {
	ObserveFetch(family domain.Family, key string, err error)
	ObserveCard(card domain.FrameworkCard)
}
