package attendance

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Record, error)
	// ListByDateRange returns every attendance record for the project
	// whose date falls within [start, end] inclusive. Dates are compared
	// as fixed-width ISO strings.
	ListByDateRange(ctx context.Context, projectID, start, end string) ([]*Record, error)
}
