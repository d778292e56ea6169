package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/analytics"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/notification"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/report"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/user"
)

type service struct {
	analyticsRepo   analytics.Repository
	projectRepo     project.Repository
	reportRepo      report.Repository
	userRepo        user.Repository
	notificationSvc notification.Service
	logger          *slog.Logger
	now             func() time.Time
}

// NewService creates the progress analytics service.
func NewService(
	analyticsRepo analytics.Repository,
	projectRepo project.Repository,
	reportRepo report.Repository,
	userRepo user.Repository,
	notificationSvc notification.Service,
	logger *slog.Logger,
) analytics.Service {
	return &service{
		analyticsRepo:   analyticsRepo,
		projectRepo:     projectRepo,
		reportRepo:      reportRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *service) AnalyzeReport(ctx context.Context, projectID, reportID string) error {
	proj, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			// The report may reference a project deleted between the
			// event being queued and processed. Nothing to analyze.
			s.logger.Warn("skipping analysis for missing project",
				slog.String("project_id", projectID),
				slog.String("report_id", reportID))
			return nil
		}
		return fmt.Errorf("get project: %w", err)
	}

	reports, err := s.reportRepo.ListRecent(ctx, projectID, ReportWindow)
	if err != nil {
		return fmt.Errorf("list recent reports: %w", err)
	}

	result, err := ComputeProgress(proj, reports, s.now())
	if err != nil {
		return fmt.Errorf("compute progress: %w", err)
	}
	result.ProjectID = projectID
	result.ReportID = reportID

	history := &project.HistoryEntry{
		ProjectID: projectID,
		Action:    "ai_analysis_completed",
		Details: map[string]interface{}{
			"report_id":           reportID,
			"progress_percentage": result.ProgressPercentage,
			"delay_risk":          result.DelayRisk,
		},
	}
	if err := s.analyticsRepo.SaveWithHistory(ctx, result, history); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	if result.DelayRisk > HighDelayRiskThreshold {
		s.notifyDelayRisk(ctx, proj, result)
	}

	return nil
}

func (s *service) ListProjectAnalytics(ctx context.Context, projectID string, limit int) ([]*analytics.ProgressAnalytics, error) {
	if limit <= 0 {
		limit = ReportWindow
	}
	return s.analyticsRepo.ListByProject(ctx, projectID, limit)
}

// notifyDelayRisk fans out a delay alert to admins and project
// managers. Notification failures are logged, not propagated: the
// analysis itself already succeeded.
func (s *service) notifyDelayRisk(ctx context.Context, proj *project.Project, result *analytics.ProgressAnalytics) {
	recipients, err := s.userRepo.ListByRoles(ctx, []user.Role{user.RoleAdmin, user.RoleProjectManager})
	if err != nil {
		s.logger.Error("failed to resolve delay alert recipients",
			slog.String("project_id", proj.ID),
			slog.Any("error", err))
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, recipient := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: recipient.ID,
			Type:        notification.TypeDelayDetected,
			Title:       "Project Delay Risk Detected",
			Message:     fmt.Sprintf("Project %s has a %.0f%% delay risk. Predicted completion: %s", proj.Name, result.DelayRisk*100, result.PredictedEndDate),
			Data: map[string]interface{}{
				"project_id":         proj.ID,
				"delay_risk":         result.DelayRisk,
				"predicted_end_date": result.PredictedEndDate,
			},
		})
	}
	if len(reqs) == 0 {
		return
	}

	if err := s.notificationSvc.QueueBulkNotification(ctx, reqs); err != nil {
		s.logger.Error("failed to queue delay notifications",
			slog.String("project_id", proj.ID),
			slog.Any("error", err))
	}
}
