package analytics

import "errors"

var (
	// ErrInvalidSchedule is returned when a project's end date is not
	// after its start date, which would make every time-progress ratio
	// meaningless.
	ErrInvalidSchedule = errors.New("project end date must be after start date")
)
