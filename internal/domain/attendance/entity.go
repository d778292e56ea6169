package attendance

import "time"

// WorkerEntry is one worker's hours inside a daily attendance record.
type WorkerEntry struct {
	WorkerID      string  `json:"workerId"`
	HoursWorked   float64 `json:"hoursWorked"`
	OvertimeHours float64 `json:"overtimeHours"`
}

// Record is the attendance sheet for one project day. Unlike daily
// reports these are mutable: every create, update or delete may
// invalidate payroll validations covering the date.
type Record struct {
	ID             string
	ProjectID      string
	AttendanceDate string // "YYYY-MM-DD", lexicographically comparable
	Records        []WorkerEntry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
