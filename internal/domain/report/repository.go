package report

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*DailyReport, error)
	// ListRecent returns reports for a project ordered by report date
	// descending, at most limit entries.
	ListRecent(ctx context.Context, projectID string, limit int) ([]*DailyReport, error)
}
