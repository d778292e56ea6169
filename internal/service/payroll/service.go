package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/attendance"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/notification"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/payroll"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/user"
)

// HoursTolerance is the maximum absolute gap, in hours, between a
// worker's payroll hours and attendance hours before the line item is
// flagged.
const HoursTolerance = 0.5

type service struct {
	payrollRepo     payroll.Repository
	attendanceRepo  attendance.Repository
	userRepo        user.Repository
	notificationSvc notification.Service
	logger          *slog.Logger
}

// NewService creates the payroll validation service.
func NewService(
	payrollRepo payroll.Repository,
	attendanceRepo attendance.Repository,
	userRepo user.Repository,
	notificationSvc notification.Service,
	logger *slog.Logger,
) payroll.Service {
	return &service{
		payrollRepo:     payrollRepo,
		attendanceRepo:  attendanceRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

// ValidateDocument cross-checks one payroll document against the
// attendance records covering its period. Pure: same inputs always
// produce the same result, so revalidation is idempotent.
func ValidateDocument(doc *payroll.Document, records []*attendance.Record) *payroll.ValidationResult {
	// Last write wins per worker and day; re-submitted sheets replace
	// earlier ones for the same date.
	entries := make(map[string]attendance.WorkerEntry)
	for _, rec := range records {
		for _, entry := range rec.Records {
			entries[entry.WorkerID+"_"+rec.AttendanceDate] = entry
		}
	}

	// Sum in sorted key order so repeated runs over the same inputs
	// produce bit-identical float totals.
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	hoursByWorker := make(map[string]float64)
	for _, key := range keys {
		entry := entries[key]
		hoursByWorker[entry.WorkerID] += entry.HoursWorked + entry.OvertimeHours
	}

	result := &payroll.ValidationResult{
		IsValid:              true,
		Issues:               []payroll.Issue{},
		TotalValidatedAmount: decimal.Zero,
	}

	// Mismatches surface through Issues; every line item still counts
	// toward the totals.
	for _, item := range doc.Items {
		attendanceHours := hoursByWorker[item.WorkerID]
		payrollHours := item.RegularHours + item.OvertimeHours
		if math.Abs(attendanceHours-payrollHours) > HoursTolerance {
			result.IsValid = false
			result.Issues = append(result.Issues, payroll.Issue{
				WorkerID:        item.WorkerID,
				WorkerName:      item.WorkerName,
				Issue:           "Hours mismatch",
				AttendanceHours: attendanceHours,
				PayrollHours:    payrollHours,
			})
		}

		result.TotalValidatedAmount = result.TotalValidatedAmount.Add(item.NetPay)
		result.ValidatedItemCount++
	}

	return result
}

func (s *service) ValidateNewDocument(ctx context.Context, projectID, payrollID string) error {
	doc, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, payroll.ErrDocumentNotFound) {
			s.logger.Warn("skipping validation for missing payroll document",
				slog.String("payroll_id", payrollID),
				slog.String("project_id", projectID))
			return nil
		}
		return fmt.Errorf("get payroll document: %w", err)
	}

	result, err := s.revalidate(ctx, doc)
	if err != nil {
		return err
	}

	status := payroll.StatusFor(result)
	if err := s.payrollRepo.UpdateValidation(ctx, doc.ID, result, status); err != nil {
		return fmt.Errorf("update validation: %w", err)
	}

	s.notifyAccounting(ctx, doc, result)
	return nil
}

func (s *service) ReconcileAttendanceChange(ctx context.Context, change attendance.ChangeEvent) error {
	date := change.EffectiveDate()
	if date == "" {
		s.logger.Warn("attendance change carries no date, nothing to reconcile",
			slog.String("project_id", change.ProjectID),
			slog.String("attendance_id", change.AttendanceID))
		return nil
	}

	docs, err := s.payrollRepo.ListPeriodsContaining(ctx, change.ProjectID, date)
	if err != nil {
		return fmt.Errorf("list payroll periods: %w", err)
	}
	if len(docs) == 0 {
		s.logger.Info("no payroll period covers changed attendance date",
			slog.String("project_id", change.ProjectID),
			slog.String("date", date))
		return nil
	}

	updates := make([]payroll.ValidationUpdate, 0, len(docs))
	for _, doc := range docs {
		result, err := s.revalidate(ctx, doc)
		if err != nil {
			return err
		}
		updates = append(updates, payroll.ValidationUpdate{
			DocumentID: doc.ID,
			Result:     result,
			Status:     payroll.StatusFor(result),
		})
	}

	if err := s.payrollRepo.UpdateValidationBatch(ctx, updates); err != nil {
		return fmt.Errorf("update validation batch: %w", err)
	}

	s.logger.Info("revalidated payroll periods after attendance change",
		slog.String("project_id", change.ProjectID),
		slog.String("date", date),
		slog.Int("documents", len(updates)))
	return nil
}

// revalidate recomputes a document's validation from the full set of
// attendance records in its period, never from a partial view.
func (s *service) revalidate(ctx context.Context, doc *payroll.Document) (*payroll.ValidationResult, error) {
	records, err := s.attendanceRepo.ListByDateRange(ctx, doc.ProjectID, doc.PayrollPeriodStart, doc.PayrollPeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("list attendance for period: %w", err)
	}
	return ValidateDocument(doc, records), nil
}

func (s *service) notifyAccounting(ctx context.Context, doc *payroll.Document, result *payroll.ValidationResult) {
	recipients, err := s.userRepo.ListByRoles(ctx, []user.Role{user.RoleAccounting})
	if err != nil {
		s.logger.Error("failed to resolve payroll notification recipients",
			slog.String("payroll_id", doc.ID),
			slog.Any("error", err))
		return
	}

	title := "Payroll Validated"
	message := fmt.Sprintf("Payroll for %s to %s passed validation (%d items).",
		doc.PayrollPeriodStart, doc.PayrollPeriodEnd, result.ValidatedItemCount)
	if !result.IsValid {
		title = "Payroll Needs Review"
		message = fmt.Sprintf("Payroll for %s to %s has %d issue(s) that need review.",
			doc.PayrollPeriodStart, doc.PayrollPeriodEnd, len(result.Issues))
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, recipient := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: recipient.ID,
			Type:        notification.TypePayrollValidation,
			Title:       title,
			Message:     message,
			Data: map[string]interface{}{
				"payroll_id":  doc.ID,
				"project_id":  doc.ProjectID,
				"is_valid":    result.IsValid,
				"issue_count": len(result.Issues),
			},
		})
	}
	if len(reqs) == 0 {
		return
	}

	if err := s.notificationSvc.QueueBulkNotification(ctx, reqs); err != nil {
		s.logger.Error("failed to queue payroll notifications",
			slog.String("payroll_id", doc.ID),
			slog.Any("error", err))
	}
}
