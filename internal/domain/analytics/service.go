package analytics

import "context"

// Service runs progress analysis over a project's daily reports.
type Service interface {
	// AnalyzeReport handles a new daily report: computes the analytics,
	// appends them to the analysis log and fans out delay notifications
	// when the risk crosses the alert threshold.
	AnalyzeReport(ctx context.Context, projectID, reportID string) error
	ListProjectAnalytics(ctx context.Context, projectID string, limit int) ([]*ProgressAnalytics, error)
}
