package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/audit"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit log repository
func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// CreateWithHistory writes the audit log, and the project history entry
// when one is given, atomically.
func (r *auditRepository) CreateWithHistory(ctx context.Context, log *audit.Log, history *project.HistoryEntry) error {
	if history == nil {
		q := GetQuerier(ctx, r.db)
		return insertAuditLog(ctx, q, log)
	}

	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		if err := insertAuditLog(txCtx, tx, log); err != nil {
			return err
		}
		return insertHistory(txCtx, tx, history)
	})
}

func insertAuditLog(ctx context.Context, q database.Querier, log *audit.Log) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, user_id, user_email, user_role, project_id, action, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.UserEmail,
		log.UserRole,
		log.ProjectID,
		log.Action,
		detailsJSON,
		log.IPAddress,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}
