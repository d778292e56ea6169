package attendance

import (
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/validator"
)

// ChangeType marks what kind of mutation happened to an attendance record.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent describes an attendance mutation reported by the main
// application. AttendanceDate is the post-change date; PreviousDate is
// the pre-change date and is the only date available after a delete.
type ChangeEvent struct {
	ProjectID      string     `json:"project_id"`
	AttendanceID   string     `json:"attendance_id"`
	ChangeType     ChangeType `json:"change_type"`
	AttendanceDate string     `json:"attendance_date,omitempty"`
	PreviousDate   string     `json:"previous_date,omitempty"`
}

func (e *ChangeEvent) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(e.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id is required",
		})
	}

	switch e.ChangeType {
	case ChangeCreated, ChangeUpdated, ChangeDeleted:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "change_type",
			Message: "change_type must be one of created, updated, deleted",
		})
	}

	if e.AttendanceDate != "" && !validator.IsValidISODate(e.AttendanceDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_date",
			Message: "attendance_date must be a zero-padded YYYY-MM-DD date",
		})
	}

	if e.PreviousDate != "" && !validator.IsValidISODate(e.PreviousDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "previous_date",
			Message: "previous_date must be a zero-padded YYYY-MM-DD date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EffectiveDate returns the date to reconcile payroll against: the
// post-change date when present, otherwise the pre-change date. Empty
// means there is nothing to reconcile.
func (e *ChangeEvent) EffectiveDate() string {
	if e.AttendanceDate != "" {
		return e.AttendanceDate
	}
	return e.PreviousDate
}
