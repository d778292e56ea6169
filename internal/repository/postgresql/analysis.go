package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/analytics"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type analysisRepository struct {
	db *database.DB
}

// NewAnalysisRepository creates a new progress analysis repository
func NewAnalysisRepository(db *database.DB) analytics.Repository {
	return &analysisRepository{db: db}
}

// SaveWithHistory appends the analysis row and its project history
// entry together: neither lands without the other.
func (r *analysisRepository) SaveWithHistory(ctx context.Context, analysis *analytics.ProgressAnalytics, history *project.HistoryEntry) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		if err := insertAnalysis(txCtx, tx, analysis); err != nil {
			return err
		}
		return insertHistory(txCtx, tx, history)
	})
}

func insertAnalysis(ctx context.Context, q database.Querier, a *analytics.ProgressAnalytics) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	recsJSON, err := json.Marshal(a.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO progress_analyses (
			id, project_id, report_id, analysis_type, progress_percentage,
			time_progress, delay_risk, predicted_end_date, velocity,
			recommendations, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = q.Exec(ctx, query,
		a.ID,
		a.ProjectID,
		a.ReportID,
		a.AnalysisType,
		a.ProgressPercentage,
		a.TimeProgress,
		a.DelayRisk,
		a.PredictedEndDate,
		a.Velocity,
		recsJSON,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert progress analysis: %w", err)
	}

	return nil
}

func (r *analysisRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]*analytics.ProgressAnalytics, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, project_id, report_id, analysis_type, progress_percentage,
		       time_progress, delay_risk, predicted_end_date, velocity,
		       recommendations, created_at
		FROM progress_analyses
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*analytics.ProgressAnalytics
	for rows.Next() {
		var a analytics.ProgressAnalytics
		var recsJSON []byte
		if err := rows.Scan(
			&a.ID,
			&a.ProjectID,
			&a.ReportID,
			&a.AnalysisType,
			&a.ProgressPercentage,
			&a.TimeProgress,
			&a.DelayRisk,
			&a.PredictedEndDate,
			&a.Velocity,
			&recsJSON,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress analysis: %w", err)
		}
		if recsJSON != nil {
			if err := json.Unmarshal(recsJSON, &a.Recommendations); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
			}
		}
		analyses = append(analyses, &a)
	}

	return analyses, nil
}
