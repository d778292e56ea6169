package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one worker's declared pay inside a payroll document.
type LineItem struct {
	WorkerID      string          `json:"workerId"`
	WorkerName    string          `json:"workerName"`
	RegularHours  float64         `json:"regularHours"`
	OvertimeHours float64         `json:"overtimeHours"`
	NetPay        decimal.Decimal `json:"netPay"`
}

// ValidationStatus enum
type ValidationStatus string

const (
	StatusPending     ValidationStatus = "pending"
	StatusValidated   ValidationStatus = "validated"
	StatusNeedsReview ValidationStatus = "needs_review"
)

// Document is a payroll declaration covering one period of a project.
// The period bounds are zero-padded ISO dates so that containment
// checks can compare them lexicographically.
type Document struct {
	ID                 string
	ProjectID          string
	PayrollPeriodStart string // "YYYY-MM-DD"
	PayrollPeriodEnd   string // "YYYY-MM-DD"
	Items              []LineItem
	ValidationResults  *ValidationResult
	ValidationStatus   ValidationStatus
	ValidatedAt        *time.Time
	CreatedAt          time.Time
}

// ContainsDate reports whether date falls within the payroll period,
// bounds inclusive.
func (d *Document) ContainsDate(date string) bool {
	return d.PayrollPeriodStart <= date && date <= d.PayrollPeriodEnd
}

// Issue flags one worker whose declared hours disagree with attendance.
type Issue struct {
	WorkerID        string  `json:"workerId"`
	WorkerName      string  `json:"workerName"`
	Issue           string  `json:"issue"`
	AttendanceHours float64 `json:"attendanceHours"`
	PayrollHours    float64 `json:"payrollHours"`
}

// ValidationResult is a recomputable projection of a payroll document
// against the attendance records covering its period. It must never be
// mutated independently of its inputs.
type ValidationResult struct {
	IsValid              bool            `json:"isValid"`
	Issues               []Issue         `json:"issues"`
	TotalValidatedAmount decimal.Decimal `json:"totalValidatedAmount"`
	ValidatedItemCount   int             `json:"validatedItemCount"`
}

// StatusFor maps a validation outcome to the stored document status.
func StatusFor(result *ValidationResult) ValidationStatus {
	if result.IsValid {
		return StatusValidated
	}
	return StatusNeedsReview
}

// ValidationUpdate pairs a payroll document with its freshly computed
// result, for persisting several revalidations as one batch.
type ValidationUpdate struct {
	DocumentID string
	Result     *ValidationResult
	Status     ValidationStatus
}
