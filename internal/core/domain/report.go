package domain

import "time"

// ReportRequest is the queued unit of work for an XLSX dashboard export.
type ReportRequest struct {
	ReportID    string    `json:"report_id"`
	ProjectID   int       `json:"project_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// ReportKey is the storage key of a rendered report.
func ReportKey(reportID string) string {
	return "reports/" + reportID + ".xlsx"
}
