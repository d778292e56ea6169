package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type verificationRepository struct {
	db *database.DB
}

// NewVerificationRepository creates a new image verification repository
func NewVerificationRepository(db *database.DB) verification.Repository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *verification.ImageVerification) error {
	q := GetQuerier(ctx, r.db)

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	labelsJSON, err := json.Marshal(v.Labels)
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}
	objectsJSON, err := json.Marshal(v.Objects)
	if err != nil {
		return fmt.Errorf("failed to marshal objects: %w", err)
	}

	query := `
		INSERT INTO image_verifications (
			id, user_id, project_id, project_name, image_url, storage_path,
			file_name, pass, status, confidence, labels, objects,
			extracted_text, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = q.Exec(ctx, query,
		v.ID,
		v.UserID,
		v.ProjectID,
		v.ProjectName,
		v.ImageURL,
		v.StoragePath,
		v.FileName,
		v.Pass,
		string(v.Status),
		v.Confidence,
		labelsJSON,
		objectsJSON,
		v.ExtractedText,
		v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create image verification: %w", err)
	}

	return nil
}

const verificationColumns = `id, user_id, project_id, project_name, image_url, storage_path,
	file_name, pass, status, confidence, labels, objects, extracted_text, created_at`

func (r *verificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*verification.ImageVerification, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM image_verifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, verificationColumns)

	return r.queryVerifications(ctx, q, query, userID, limit)
}

func (r *verificationRepository) ListRecentFailed(ctx context.Context, limit int) ([]*verification.ImageVerification, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM image_verifications
		WHERE pass = false
		ORDER BY created_at DESC
		LIMIT $1
	`, verificationColumns)

	return r.queryVerifications(ctx, q, query, limit)
}

func (r *verificationRepository) queryVerifications(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]*verification.ImageVerification, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query image verifications: %w", err)
	}
	defer rows.Close()

	var verifications []*verification.ImageVerification
	for rows.Next() {
		var v verification.ImageVerification
		var status string
		var labelsJSON, objectsJSON []byte

		if err := rows.Scan(
			&v.ID,
			&v.UserID,
			&v.ProjectID,
			&v.ProjectName,
			&v.ImageURL,
			&v.StoragePath,
			&v.FileName,
			&v.Pass,
			&status,
			&v.Confidence,
			&labelsJSON,
			&objectsJSON,
			&v.ExtractedText,
			&v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan image verification: %w", err)
		}

		v.Status = verification.Status(status)
		if labelsJSON != nil {
			if err := json.Unmarshal(labelsJSON, &v.Labels); err != nil {
				return nil, fmt.Errorf("failed to unmarshal labels: %w", err)
			}
		}
		if objectsJSON != nil {
			if err := json.Unmarshal(objectsJSON, &v.Objects); err != nil {
				return nil, fmt.Errorf("failed to unmarshal objects: %w", err)
			}
		}

		verifications = append(verifications, &v)
	}

	return verifications, nil
}
