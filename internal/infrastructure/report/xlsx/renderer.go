package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

const (
	summarySheet = "Summary"
	statusSheet  = "Status"
)

var summaryHeader = []any{
	"Framework", "Family", "State",
	"Clause total", "Clause done", "Clause completion %", "Clause assigned", "Clause assignment %",
	"Annex total", "Annex done", "Annex completion %", "Annex assigned", "Annex assignment %",
}

// Renderer writes a dashboard as an XLSX workbook with a Summary and a
// Status sheet.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(dashboard *domain.Dashboard, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(statusSheet); err != nil {
		return fmt.Errorf("create status sheet: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, summaryHeader); err != nil {
		return err
	}
	statusHeader := []any{"Framework"}
	for _, bucket := range domain.StatusBuckets {
		statusHeader = append(statusHeader, string(bucket))
	}
	statusHeader = append(statusHeader, "approximated")
	if err := writeRow(f, statusSheet, 1, statusHeader); err != nil {
		return err
	}

	for i, card := range dashboard.Cards {
		p := card.Progress
		summary := []any{
			p.Framework.FrameworkName, string(p.Family), string(card.State),
			p.ClauseProgress.Total, p.ClauseProgress.Done, p.ClauseRatios.CompletionPct,
			p.Assignments.ClauseAssigned, p.ClauseRatios.AssignmentPct,
			p.AnnexProgress.Total, p.AnnexProgress.Done, p.AnnexRatios.CompletionPct,
			p.Assignments.AnnexAssigned, p.AnnexRatios.AssignmentPct,
		}
		if err := writeRow(f, summarySheet, i+2, summary); err != nil {
			return err
		}

		status := []any{p.Framework.FrameworkName}
		for _, bucket := range domain.StatusBuckets {
			status = append(status, p.StatusBreakdown[bucket])
		}
		status = append(status, p.BreakdownApproximated)
		if err := writeRow(f, statusSheet, i+2, status); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
