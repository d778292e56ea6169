package analytics

import (
	"context"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
)

type Repository interface {
	// SaveWithHistory appends the analysis record and the matching
	// project history entry in one transaction.
	SaveWithHistory(ctx context.Context, analysis *ProgressAnalytics, history *project.HistoryEntry) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]*ProgressAnalytics, error)
}
