package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsight/fieldsight-backend-go/internal/event"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *capturedEvents) handler(_ context.Context, e event.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capturedEvents) all() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

func newEventTestSetup(t *testing.T) (EventHandler, *event.Dispatcher, *capturedEvents) {
	t.Helper()
	d := event.NewDispatcher(slog.New(slog.DiscardHandler), event.Config{WorkerCount: 1})
	captured := &capturedEvents{}
	d.Register(event.TypeDailyReportCreated, captured.handler)
	d.Register(event.TypePayrollDocumentCreated, captured.handler)
	d.Register(event.TypeAttendanceWritten, captured.handler)
	d.Start()
	return NewEventHandler(d), d, captured
}

func postJSON(t *testing.T, handler func(http.ResponseWriter, *http.Request), body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestDailyReportCreated_QueuesEvent(t *testing.T) {
	h, d, captured := newEventTestSetup(t)

	rec := postJSON(t, h.DailyReportCreated, map[string]string{
		"project_id": "proj-1",
		"report_id":  "report-1",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)

	d.Stop()
	events := captured.all()
	require.Len(t, events, 1)
	payload, ok := events[0].Payload.(event.DailyReportCreated)
	require.True(t, ok)
	assert.Equal(t, "proj-1", payload.ProjectID)
	assert.Equal(t, "report-1", payload.ReportID)
}

func TestDailyReportCreated_MissingFieldsRejected(t *testing.T) {
	h, d, captured := newEventTestSetup(t)

	rec := postJSON(t, h.DailyReportCreated, map[string]string{
		"project_id": "proj-1",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	d.Stop()
	assert.Empty(t, captured.all())
}

func TestPayrollDocumentCreated_QueuesEvent(t *testing.T) {
	h, d, captured := newEventTestSetup(t)

	rec := postJSON(t, h.PayrollDocumentCreated, map[string]string{
		"project_id": "proj-1",
		"payroll_id": "doc-1",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)

	d.Stop()
	events := captured.all()
	require.Len(t, events, 1)
	payload, ok := events[0].Payload.(event.PayrollDocumentCreated)
	require.True(t, ok)
	assert.Equal(t, "doc-1", payload.PayrollID)
}

func TestAttendanceWritten_QueuesValidatedEvent(t *testing.T) {
	h, d, captured := newEventTestSetup(t)

	rec := postJSON(t, h.AttendanceWritten, map[string]string{
		"project_id":      "proj-1",
		"attendance_id":   "att-1",
		"change_type":     "updated",
		"attendance_date": "2024-03-15",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)

	d.Stop()
	events := captured.all()
	require.Len(t, events, 1)
	payload, ok := events[0].Payload.(event.AttendanceWritten)
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", payload.AttendanceDate)
}

func TestAttendanceWritten_BadChangeTypeRejected(t *testing.T) {
	h, d, captured := newEventTestSetup(t)

	rec := postJSON(t, h.AttendanceWritten, map[string]string{
		"project_id":    "proj-1",
		"attendance_id": "att-1",
		"change_type":   "upserted",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	d.Stop()
	assert.Empty(t, captured.all())
}

func TestAttendanceWritten_UnpaddedDateRejected(t *testing.T) {
	h, d, captured := newEventTestSetup(t)

	rec := postJSON(t, h.AttendanceWritten, map[string]string{
		"project_id":      "proj-1",
		"attendance_id":   "att-1",
		"change_type":     "created",
		"attendance_date": "2024-3-5",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	d.Stop()
	assert.Empty(t, captured.all())
}

func TestEventEndpoints_InvalidJSONRejected(t *testing.T) {
	h, d, _ := newEventTestSetup(t)
	defer d.Stop()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.DailyReportCreated(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
