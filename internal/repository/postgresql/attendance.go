package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/attendance"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, project_id, attendance_date, records, created_at, updated_at
		FROM attendance_records
		WHERE id = $1
	`

	var rec attendance.Record
	var recordsJSON []byte
	err := q.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.ProjectID, &rec.AttendanceDate, &recordsJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if recordsJSON != nil {
		if err := json.Unmarshal(recordsJSON, &rec.Records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal worker entries: %w", err)
		}
	}

	return &rec, nil
}

func (r *attendanceRepository) ListByDateRange(ctx context.Context, projectID, start, end string) ([]*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	// Bounds inclusive. attendance_date is a zero-padded ISO string, so
	// text comparison is date comparison.
	query := `
		SELECT id, project_id, attendance_date, records, created_at, updated_at
		FROM attendance_records
		WHERE project_id = $1 AND attendance_date >= $2 AND attendance_date <= $3
		ORDER BY attendance_date
	`

	rows, err := q.Query(ctx, query, projectID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []*attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var recordsJSON []byte
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.AttendanceDate, &recordsJSON, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		if recordsJSON != nil {
			if err := json.Unmarshal(recordsJSON, &rec.Records); err != nil {
				return nil, fmt.Errorf("failed to unmarshal worker entries: %w", err)
			}
		}
		records = append(records, &rec)
	}

	return records, nil
}
