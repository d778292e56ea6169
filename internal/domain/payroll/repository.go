package payroll

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Document, error)
	// ListPeriodsContaining returns the project's payroll documents whose
	// [payroll_period_start, payroll_period_end] window contains date,
	// bounds inclusive, compared as fixed-width ISO strings.
	ListPeriodsContaining(ctx context.Context, projectID, date string) ([]*Document, error)
	UpdateValidation(ctx context.Context, documentID string, result *ValidationResult, status ValidationStatus) error
	// UpdateValidationBatch persists all updates in a single transaction:
	// either every document's validation changes or none do.
	UpdateValidationBatch(ctx context.Context, updates []ValidationUpdate) error
}
