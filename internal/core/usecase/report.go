package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/framework-progress/internal/core/domain"
	"github.com/kirillkom/framework-progress/internal/core/ports"
)

type ReportUseCase struct {
	dashboards ports.DashboardService
	queue      ports.ReportQueue
	storage    ports.ObjectStorage
	renderer   ports.ReportRenderer
	now        func() time.Time
}

func NewReportUseCase(
	dashboards ports.DashboardService,
	queue ports.ReportQueue,
	storage ports.ObjectStorage,
	renderer ports.ReportRenderer,
) *ReportUseCase {
	return &ReportUseCase{
		dashboards: dashboards,
		queue:      queue,
		storage:    storage,
		renderer:   renderer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ReportUseCase) RequestReport(ctx context.Context, projectID int) (*domain.ReportRequest, error) {
	if projectID <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "request report", fmt.Errorf("project id must be positive, got %d", projectID))
	}
	req := domain.ReportRequest{
		ReportID:    uuid.NewString(),
		ProjectID:   projectID,
		RequestedAt: uc.now(),
	}
	if err := uc.queue.PublishReportRequested(ctx, req); err != nil {
		return nil, fmt.Errorf("publish report request: %w", err)
	}
	return &req, nil
}

func (uc *ReportUseCase) OpenReport(ctx context.Context, reportID string) (io.ReadCloser, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open report", err)
	}
	rc, err := uc.storage.Open(ctx, domain.ReportKey(reportID))
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", reportID, err)
	}
	return rc, nil
}

func (uc *ReportUseCase) ProcessReport(ctx context.Context, req domain.ReportRequest) error {
	if _, err := uuid.Parse(req.ReportID); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "process report", err)
	}

	dashboard, err := uc.dashboards.BuildDashboard(ctx, req.ProjectID)
	if err != nil {
		return fmt.Errorf("build dashboard: %w", err)
	}

	var buf bytes.Buffer
	if err := uc.renderer.Render(dashboard, &buf); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := uc.storage.Save(ctx, domain.ReportKey(req.ReportID), &buf); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
