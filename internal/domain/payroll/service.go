package payroll

import (
	"context"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/attendance"
)

// Service validates payroll documents against attendance and keeps the
// validations consistent when attendance changes.
type Service interface {
	// ValidateNewDocument handles a freshly created payroll document.
	ValidateNewDocument(ctx context.Context, projectID, payrollID string) error
	// ReconcileAttendanceChange finds every payroll period covering the
	// changed attendance date and revalidates all of them as one batch.
	ReconcileAttendanceChange(ctx context.Context, change attendance.ChangeEvent) error
}
