package event

import (
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/attendance"
)

// Type identifies a domain event emitted by the main application.
type Type string

const (
	TypeDailyReportCreated     Type = "daily_report.created"
	TypePayrollDocumentCreated Type = "payroll_document.created"
	TypeAttendanceWritten      Type = "attendance.written"
)

// Event is one queued unit of work. Payload is one of the typed
// payloads below, validated at the HTTP boundary before enqueueing.
type Event struct {
	Type    Type
	Payload interface{}
}

// DailyReportCreated fires after a field engineer submits a report.
type DailyReportCreated struct {
	ProjectID string `json:"project_id"`
	ReportID  string `json:"report_id"`
}

// PayrollDocumentCreated fires after accounting uploads a payroll
// document.
type PayrollDocumentCreated struct {
	ProjectID string `json:"project_id"`
	PayrollID string `json:"payroll_id"`
}

// AttendanceWritten fires on any attendance create, update or delete.
type AttendanceWritten = attendance.ChangeEvent
