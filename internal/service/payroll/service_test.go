package payroll

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/attendance"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/notification"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/payroll"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/user"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/sse"
)

func marchDocument(items ...payroll.LineItem) *payroll.Document {
	return &payroll.Document{
		ID:                 "doc-1",
		ProjectID:          "proj-1",
		PayrollPeriodStart: "2024-03-01",
		PayrollPeriodEnd:   "2024-03-31",
		Items:              items,
	}
}

func attendanceOn(date string, entries ...attendance.WorkerEntry) *attendance.Record {
	return &attendance.Record{
		ProjectID:      "proj-1",
		AttendanceDate: date,
		Records:        entries,
	}
}

func TestValidateDocument_MatchingHoursWithinTolerance(t *testing.T) {
	doc := marchDocument(payroll.LineItem{
		WorkerID:     "w1",
		WorkerName:   "Asep",
		RegularHours: 40,
		NetPay:       decimal.NewFromInt(500),
	})
	records := []*attendance.Record{
		attendanceOn("2024-03-04", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 32}),
		attendanceOn("2024-03-05", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 6, OvertimeHours: 2}),
	}

	result := ValidateDocument(doc, records)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 1, result.ValidatedItemCount)
	assert.True(t, result.TotalValidatedAmount.Equal(decimal.NewFromInt(500)))
}

func TestValidateDocument_MismatchBeyondToleranceFlagsWorker(t *testing.T) {
	doc := marchDocument(payroll.LineItem{
		WorkerID:     "w1",
		WorkerName:   "Asep",
		RegularHours: 40,
		NetPay:       decimal.NewFromInt(500),
	})
	records := []*attendance.Record{
		attendanceOn("2024-03-04", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 38}),
	}

	result := ValidateDocument(doc, records)

	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, "w1", issue.WorkerID)
	assert.Equal(t, "Asep", issue.WorkerName)
	assert.Equal(t, "Hours mismatch", issue.Issue)
	assert.Equal(t, 38.0, issue.AttendanceHours)
	assert.Equal(t, 40.0, issue.PayrollHours)
	// The flagged item still counts toward the totals.
	assert.Equal(t, 1, result.ValidatedItemCount)
	assert.True(t, result.TotalValidatedAmount.Equal(decimal.NewFromInt(500)))
}

func TestValidateDocument_ExactlyHalfHourGapPasses(t *testing.T) {
	doc := marchDocument(payroll.LineItem{WorkerID: "w1", RegularHours: 40, NetPay: decimal.NewFromInt(100)})
	records := []*attendance.Record{
		attendanceOn("2024-03-04", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 39.5}),
	}

	result := ValidateDocument(doc, records)
	assert.True(t, result.IsValid)
	assert.Equal(t, 1, result.ValidatedItemCount)
}

func TestValidateDocument_ResubmittedSheetReplacesEarlierOne(t *testing.T) {
	doc := marchDocument(payroll.LineItem{WorkerID: "w1", RegularHours: 8, NetPay: decimal.NewFromInt(80)})
	// Two sheets for the same day: the later one wins, the hours do not stack.
	records := []*attendance.Record{
		attendanceOn("2024-03-04", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 10}),
		attendanceOn("2024-03-04", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 8}),
	}

	result := ValidateDocument(doc, records)
	assert.True(t, result.IsValid)
}

func TestValidateDocument_WorkerAbsentFromAttendance(t *testing.T) {
	doc := marchDocument(payroll.LineItem{WorkerID: "ghost", WorkerName: "Ghost", RegularHours: 40})

	result := ValidateDocument(doc, nil)

	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 0.0, result.Issues[0].AttendanceHours)
}

func TestValidateDocument_TotalsIncludeFlaggedItems(t *testing.T) {
	doc := marchDocument(
		payroll.LineItem{WorkerID: "w1", RegularHours: 40, NetPay: decimal.NewFromInt(400)},
		payroll.LineItem{WorkerID: "w2", RegularHours: 40, NetPay: decimal.NewFromInt(450)},
	)
	records := []*attendance.Record{
		attendanceOn("2024-03-04",
			attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 40},
			attendance.WorkerEntry{WorkerID: "w2", HoursWorked: 30},
		),
	}

	result := ValidateDocument(doc, records)

	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "w2", result.Issues[0].WorkerID)
	// The total and count cover every item, flagged or not.
	assert.Equal(t, 2, result.ValidatedItemCount)
	assert.True(t, result.TotalValidatedAmount.Equal(decimal.NewFromInt(850)))
}

func TestValidateDocument_RevalidationIsIdempotent(t *testing.T) {
	doc := marchDocument(
		payroll.LineItem{WorkerID: "w1", WorkerName: "Asep", RegularHours: 40, NetPay: decimal.NewFromInt(400)},
		payroll.LineItem{WorkerID: "w2", WorkerName: "Budi", RegularHours: 38.25, NetPay: decimal.NewFromInt(450)},
	)
	records := []*attendance.Record{
		attendanceOn("2024-03-04",
			attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 8.25, OvertimeHours: 1.5},
			attendance.WorkerEntry{WorkerID: "w2", HoursWorked: 8},
		),
		attendanceOn("2024-03-05",
			attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 8.25},
			attendance.WorkerEntry{WorkerID: "w2", HoursWorked: 7.75, OvertimeHours: 0.5},
		),
	}

	first, err := json.Marshal(ValidateDocument(doc, records))
	require.NoError(t, err)
	second, err := json.Marshal(ValidateDocument(doc, records))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateDocument_EmptyIssuesSerializesAsArray(t *testing.T) {
	doc := marchDocument()

	raw, err := json.Marshal(ValidateDocument(doc, nil))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"issues":[]`)
}

type stubPayrollRepo struct {
	docs        map[string]*payroll.Document
	containing  []*payroll.Document
	updatedID   string
	updated     *payroll.ValidationResult
	status      payroll.ValidationStatus
	batch       []payroll.ValidationUpdate
	batchCalls  int
	singleCalls int
}

func (s *stubPayrollRepo) GetByID(_ context.Context, id string) (*payroll.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, payroll.ErrDocumentNotFound
	}
	return doc, nil
}

func (s *stubPayrollRepo) ListPeriodsContaining(_ context.Context, _, date string) ([]*payroll.Document, error) {
	var out []*payroll.Document
	for _, doc := range s.containing {
		if doc.ContainsDate(date) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *stubPayrollRepo) UpdateValidation(_ context.Context, id string, result *payroll.ValidationResult, status payroll.ValidationStatus) error {
	s.singleCalls++
	s.updatedID = id
	s.updated = result
	s.status = status
	return nil
}

func (s *stubPayrollRepo) UpdateValidationBatch(_ context.Context, updates []payroll.ValidationUpdate) error {
	s.batchCalls++
	s.batch = updates
	return nil
}

type stubAttendanceRepo struct {
	records []*attendance.Record
	start   string
	end     string
}

func (s *stubAttendanceRepo) GetByID(_ context.Context, _ string) (*attendance.Record, error) {
	return nil, attendance.ErrRecordNotFound
}

func (s *stubAttendanceRepo) ListByDateRange(_ context.Context, _, start, end string) ([]*attendance.Record, error) {
	s.start = start
	s.end = end
	var out []*attendance.Record
	for _, rec := range s.records {
		if start <= rec.AttendanceDate && rec.AttendanceDate <= end {
			out = append(out, rec)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	users []*user.User
	roles []user.Role
}

func (s *stubUserRepo) GetByID(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (s *stubUserRepo) ListByRoles(_ context.Context, roles []user.Role) ([]*user.User, error) {
	s.roles = roles
	return s.users, nil
}

type stubNotificationSvc struct {
	queued []notification.CreateNotificationRequest
}

func (s *stubNotificationSvc) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	s.queued = append(s.queued, req)
	return nil
}

func (s *stubNotificationSvc) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	s.queued = append(s.queued, reqs...)
	return nil
}

func (s *stubNotificationSvc) GetNotifications(_ context.Context, _ string, _, _ int, _ bool) (*notification.NotificationListResponse, error) {
	return nil, nil
}

func (s *stubNotificationSvc) MarkAsRead(_ context.Context, _ string, _ notification.MarkAsReadRequest) error {
	return nil
}

func (s *stubNotificationSvc) MarkAllAsRead(_ context.Context, _ string) error {
	return nil
}

func (s *stubNotificationSvc) Subscribe(_ context.Context, _ string) (<-chan sse.Event, func()) {
	return nil, func() {}
}

func (s *stubNotificationSvc) Stop() {}

func TestValidateNewDocument_NotifiesAccounting(t *testing.T) {
	doc := marchDocument(payroll.LineItem{WorkerID: "w1", RegularHours: 8, NetPay: decimal.NewFromInt(80)})
	payrollRepo := &stubPayrollRepo{docs: map[string]*payroll.Document{"doc-1": doc}}
	attendanceRepo := &stubAttendanceRepo{records: []*attendance.Record{
		attendanceOn("2024-03-04", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 8}),
	}}
	userRepo := &stubUserRepo{users: []*user.User{{ID: "acct-1", Role: user.RoleAccounting}}}
	notifSvc := &stubNotificationSvc{}

	svc := NewService(payrollRepo, attendanceRepo, userRepo, notifSvc, slog.New(slog.DiscardHandler))
	err := svc.ValidateNewDocument(context.Background(), "proj-1", "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", attendanceRepo.start)
	assert.Equal(t, "2024-03-31", attendanceRepo.end)
	assert.Equal(t, "doc-1", payrollRepo.updatedID)
	assert.Equal(t, payroll.StatusValidated, payrollRepo.status)

	assert.Equal(t, []user.Role{user.RoleAccounting}, userRepo.roles)
	require.Len(t, notifSvc.queued, 1)
	assert.Equal(t, notification.TypePayrollValidation, notifSvc.queued[0].Type)
	assert.Equal(t, "Payroll Validated", notifSvc.queued[0].Title)
}

func TestValidateNewDocument_MismatchMarksNeedsReview(t *testing.T) {
	doc := marchDocument(payroll.LineItem{WorkerID: "w1", RegularHours: 40})
	payrollRepo := &stubPayrollRepo{docs: map[string]*payroll.Document{"doc-1": doc}}
	userRepo := &stubUserRepo{users: []*user.User{{ID: "acct-1", Role: user.RoleAccounting}}}
	notifSvc := &stubNotificationSvc{}

	svc := NewService(payrollRepo, &stubAttendanceRepo{}, userRepo, notifSvc, slog.New(slog.DiscardHandler))
	err := svc.ValidateNewDocument(context.Background(), "proj-1", "doc-1")
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusNeedsReview, payrollRepo.status)
	require.Len(t, notifSvc.queued, 1)
	assert.Equal(t, "Payroll Needs Review", notifSvc.queued[0].Title)
}

func TestValidateNewDocument_MissingDocumentIsSkipped(t *testing.T) {
	payrollRepo := &stubPayrollRepo{docs: map[string]*payroll.Document{}}
	svc := NewService(payrollRepo, &stubAttendanceRepo{}, &stubUserRepo{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))

	err := svc.ValidateNewDocument(context.Background(), "proj-1", "gone")
	require.NoError(t, err)
	assert.Zero(t, payrollRepo.singleCalls)
}

func TestReconcileAttendanceChange_RevalidatesContainingPeriodsAsBatch(t *testing.T) {
	march := marchDocument(payroll.LineItem{WorkerID: "w1", RegularHours: 8, NetPay: decimal.NewFromInt(80)})
	april := &payroll.Document{
		ID:                 "doc-2",
		ProjectID:          "proj-1",
		PayrollPeriodStart: "2024-04-01",
		PayrollPeriodEnd:   "2024-04-30",
		Items:              []payroll.LineItem{{WorkerID: "w1", RegularHours: 8}},
	}
	payrollRepo := &stubPayrollRepo{containing: []*payroll.Document{march, april}}
	attendanceRepo := &stubAttendanceRepo{records: []*attendance.Record{
		attendanceOn("2024-03-15", attendance.WorkerEntry{WorkerID: "w1", HoursWorked: 8}),
	}}

	svc := NewService(payrollRepo, attendanceRepo, &stubUserRepo{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))
	err := svc.ReconcileAttendanceChange(context.Background(), attendance.ChangeEvent{
		ProjectID:      "proj-1",
		AttendanceID:   "att-1",
		ChangeType:     attendance.ChangeUpdated,
		AttendanceDate: "2024-03-15",
	})
	require.NoError(t, err)

	// Only the March period contains 2024-03-15.
	assert.Equal(t, 1, payrollRepo.batchCalls)
	require.Len(t, payrollRepo.batch, 1)
	assert.Equal(t, "doc-1", payrollRepo.batch[0].DocumentID)
	assert.Equal(t, payroll.StatusValidated, payrollRepo.batch[0].Status)
	assert.Zero(t, payrollRepo.singleCalls)
}

func TestReconcileAttendanceChange_DeleteUsesPreviousDate(t *testing.T) {
	march := marchDocument(payroll.LineItem{WorkerID: "w1", RegularHours: 8})
	payrollRepo := &stubPayrollRepo{containing: []*payroll.Document{march}}

	svc := NewService(payrollRepo, &stubAttendanceRepo{}, &stubUserRepo{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))
	err := svc.ReconcileAttendanceChange(context.Background(), attendance.ChangeEvent{
		ProjectID:    "proj-1",
		AttendanceID: "att-1",
		ChangeType:   attendance.ChangeDeleted,
		PreviousDate: "2024-03-15",
	})
	require.NoError(t, err)

	// Attendance is gone, so the document fails revalidation.
	require.Len(t, payrollRepo.batch, 1)
	assert.Equal(t, payroll.StatusNeedsReview, payrollRepo.batch[0].Status)
}

func TestReconcileAttendanceChange_NoDateIsNoOp(t *testing.T) {
	payrollRepo := &stubPayrollRepo{}
	svc := NewService(payrollRepo, &stubAttendanceRepo{}, &stubUserRepo{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))

	err := svc.ReconcileAttendanceChange(context.Background(), attendance.ChangeEvent{
		ProjectID:    "proj-1",
		AttendanceID: "att-1",
		ChangeType:   attendance.ChangeDeleted,
	})
	require.NoError(t, err)
	assert.Zero(t, payrollRepo.batchCalls)
}

func TestReconcileAttendanceChange_NoCoveringPeriodIsNoOp(t *testing.T) {
	april := &payroll.Document{
		ID:                 "doc-2",
		ProjectID:          "proj-1",
		PayrollPeriodStart: "2024-04-01",
		PayrollPeriodEnd:   "2024-04-30",
	}
	payrollRepo := &stubPayrollRepo{containing: []*payroll.Document{april}}
	svc := NewService(payrollRepo, &stubAttendanceRepo{}, &stubUserRepo{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))

	err := svc.ReconcileAttendanceChange(context.Background(), attendance.ChangeEvent{
		ProjectID:      "proj-1",
		AttendanceID:   "att-1",
		ChangeType:     attendance.ChangeCreated,
		AttendanceDate: "2024-03-15",
	})
	require.NoError(t, err)
	assert.Zero(t, payrollRepo.batchCalls)
}
