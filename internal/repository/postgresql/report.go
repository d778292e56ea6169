package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/report"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new daily report repository
func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, project_id, report_date, work_accomplishments, created_at
		FROM daily_reports
		WHERE id = $1
	`

	var dr report.DailyReport
	var workJSON []byte
	err := q.QueryRow(ctx, query, id).Scan(&dr.ID, &dr.ProjectID, &dr.ReportDate, &workJSON, &dr.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get daily report: %w", err)
	}

	if workJSON != nil {
		if err := json.Unmarshal(workJSON, &dr.WorkAccomplishments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal work accomplishments: %w", err)
		}
	}

	return &dr, nil
}

func (r *reportRepository) ListRecent(ctx context.Context, projectID string, limit int) ([]*report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	// report_date is a zero-padded ISO string, so ordering it as text
	// is chronological.
	query := `
		SELECT id, project_id, report_date, work_accomplishments, created_at
		FROM daily_reports
		WHERE project_id = $1
		ORDER BY report_date DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.DailyReport
	for rows.Next() {
		var dr report.DailyReport
		var workJSON []byte
		if err := rows.Scan(&dr.ID, &dr.ProjectID, &dr.ReportDate, &workJSON, &dr.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily report: %w", err)
		}
		if workJSON != nil {
			if err := json.Unmarshal(workJSON, &dr.WorkAccomplishments); err != nil {
				return nil, fmt.Errorf("failed to unmarshal work accomplishments: %w", err)
			}
		}
		reports = append(reports, &dr)
	}

	return reports, nil
}
