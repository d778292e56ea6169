package response

import (
	"errors"
	"net/http"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/analytics"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/attendance"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/notification"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/payroll"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/report"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/user"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Caller mistakes
	case errors.Is(err, verification.ErrNoImageSource):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, analytics.ErrInvalidSchedule):
		BadRequest(w, "Project schedule is invalid: end date must be after start date", nil)

	// Missing resources
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Daily report not found")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, payroll.ErrDocumentNotFound):
		NotFound(w, "Payroll document not found")
	case errors.Is(err, verification.ErrVerificationNotFound):
		NotFound(w, "Image verification not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Upstream failures
	case errors.Is(err, verification.ErrVisionUnavailable):
		ServiceUnavailable(w, "Image analysis service is unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
