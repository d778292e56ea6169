package audit

import (
	"context"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
)

type Repository interface {
	// CreateWithHistory writes the audit log and, when history is non-nil,
	// the project history entry in one transaction.
	CreateWithHistory(ctx context.Context, log *Log, history *project.HistoryEntry) error
}
