package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fieldsight/fieldsight-backend-go/internal/event"
	"github.com/fieldsight/fieldsight-backend-go/internal/handler/http/response"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/validator"
)

// EventHandler accepts domain events from the main application and
// enqueues them for background processing. Responses are 202: the work
// happens after the request returns.
type EventHandler interface {
	DailyReportCreated(w http.ResponseWriter, r *http.Request)
	PayrollDocumentCreated(w http.ResponseWriter, r *http.Request)
	AttendanceWritten(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	dispatcher *event.Dispatcher
}

// NewEventHandler creates a new event intake handler
func NewEventHandler(dispatcher *event.Dispatcher) EventHandler {
	return &eventHandlerImpl{dispatcher: dispatcher}
}

// DailyReportCreated queues progress analysis for a new daily report
func (h *eventHandlerImpl) DailyReportCreated(w http.ResponseWriter, r *http.Request) {
	var payload event.DailyReportCreated
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(payload.ProjectID) {
		errs = append(errs, validator.ValidationError{Field: "project_id", Message: "project_id is required"})
	}
	if validator.IsEmpty(payload.ReportID) {
		errs = append(errs, validator.ValidationError{Field: "report_id", Message: "report_id is required"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	h.enqueue(w, event.Event{Type: event.TypeDailyReportCreated, Payload: payload})
}

// PayrollDocumentCreated queues validation for a new payroll document
func (h *eventHandlerImpl) PayrollDocumentCreated(w http.ResponseWriter, r *http.Request) {
	var payload event.PayrollDocumentCreated
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(payload.ProjectID) {
		errs = append(errs, validator.ValidationError{Field: "project_id", Message: "project_id is required"})
	}
	if validator.IsEmpty(payload.PayrollID) {
		errs = append(errs, validator.ValidationError{Field: "payroll_id", Message: "payroll_id is required"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	h.enqueue(w, event.Event{Type: event.TypePayrollDocumentCreated, Payload: payload})
}

// AttendanceWritten queues payroll reconciliation for a changed
// attendance record
func (h *eventHandlerImpl) AttendanceWritten(w http.ResponseWriter, r *http.Request) {
	var payload event.AttendanceWritten
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := payload.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	h.enqueue(w, event.Event{Type: event.TypeAttendanceWritten, Payload: payload})
}

func (h *eventHandlerImpl) enqueue(w http.ResponseWriter, e event.Event) {
	if err := h.dispatcher.Dispatch(e); err != nil {
		if errors.Is(err, event.ErrQueueFull) {
			http.Error(w, "Event queue is full, retry later", http.StatusServiceUnavailable)
			return
		}
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Event queued")
}
