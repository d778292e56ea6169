package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/audit"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/user"
)

const unknownActor = "unknown"

type service struct {
	auditRepo audit.Repository
	userRepo  user.Repository
	logger    *slog.Logger
}

// NewService creates the audit trail service.
func NewService(auditRepo audit.Repository, userRepo user.Repository, logger *slog.Logger) audit.Service {
	return &service{
		auditRepo: auditRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func (s *service) LogAction(ctx context.Context, actor audit.Actor, req audit.LogActionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	// The actor's account may have been deprovisioned between the token
	// being issued and the action landing; the trail still records it.
	email, role := unknownActor, unknownActor
	u, err := s.userRepo.GetByID(ctx, actor.UserID)
	switch {
	case err == nil:
		email = u.Email
		role = string(u.Role)
	case errors.Is(err, user.ErrUserNotFound):
		s.logger.Warn("audit entry for unknown user",
			slog.String("user_id", actor.UserID),
			slog.String("action", req.Action))
	default:
		return fmt.Errorf("get user: %w", err)
	}

	entry := &audit.Log{
		UserID:    actor.UserID,
		UserEmail: email,
		UserRole:  role,
		Action:    req.Action,
		Details:   req.Details,
		IPAddress: actor.IPAddress,
	}

	var history *project.HistoryEntry
	if req.ProjectID != "" {
		entry.ProjectID = &req.ProjectID
		history = &project.HistoryEntry{
			ProjectID: req.ProjectID,
			UserID:    &actor.UserID,
			UserEmail: &email,
			UserRole:  &role,
			Action:    req.Action,
			Details:   req.Details,
		}
	}

	if err := s.auditRepo.CreateWithHistory(ctx, entry, history); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}

	return nil
}
