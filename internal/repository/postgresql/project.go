package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB) project.Repository {
	return &projectRepository{db: db}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, status, start_date, end_date, created_at
		FROM projects
		WHERE id = $1
	`

	var p project.Project
	var status string
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &status, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	p.Status = project.Status(status)
	return &p, nil
}

func (r *projectRepository) ListByStatus(ctx context.Context, status project.Status) ([]*project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, status, start_date, end_date, created_at
		FROM projects
		WHERE status = $1
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		var p project.Project
		var st string
		if err := rows.Scan(&p.ID, &p.Name, &st, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Status = project.Status(st)
		projects = append(projects, &p)
	}

	return projects, nil
}

func (r *projectRepository) AddHistory(ctx context.Context, entry *project.HistoryEntry) error {
	q := GetQuerier(ctx, r.db)
	return insertHistory(ctx, q, entry)
}

// insertHistory writes one project history row via the given querier,
// which may be a transaction shared with other writes.
func insertHistory(ctx context.Context, q database.Querier, entry *project.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal history details: %w", err)
	}

	query := `
		INSERT INTO project_history (id, project_id, user_id, user_email, user_role, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = q.Exec(ctx, query,
		entry.ID,
		entry.ProjectID,
		entry.UserID,
		entry.UserEmail,
		entry.UserRole,
		entry.Action,
		detailsJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project history: %w", err)
	}

	return nil
}
