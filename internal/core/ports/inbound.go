package ports

import (
	"context"
	"io"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// DashboardService is the inbound contract for building framework dashboards.
type DashboardService interface {
	BuildDashboard(ctx context.Context, projectID int) (*domain.Dashboard, error)
}

// NavigationService is the inbound contract for restoring and updating dashboard navigation.
type NavigationService interface {
	Get(ctx context.Context, userID string) (domain.NavigationState, error)
	Save(ctx context.Context, state domain.NavigationState) (domain.NavigationState, error)
	ApplyIntent(ctx context.Context, userID string, intent domain.NavigationIntent) (domain.NavigationState, string, error)
}

// ReportRequester enqueues report exports and serves finished reports.
type ReportRequester interface {
	RequestReport(ctx context.Context, projectID int) (*domain.ReportRequest, error)
	OpenReport(ctx context.Context, reportID string) (io.ReadCloser, error)
}

// ReportProcessor is the inbound contract for asynchronous report rendering.
type ReportProcessor interface {
	ProcessReport(ctx context.Context, req domain.ReportRequest) error
}
