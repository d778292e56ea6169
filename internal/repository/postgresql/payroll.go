package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/payroll"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

const payrollColumns = `id, project_id, payroll_period_start, payroll_period_end, items, validation_results, validation_status, validated_at, created_at`

func (r *payrollRepository) GetByID(ctx context.Context, id string) (*payroll.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_documents
		WHERE id = $1
	`, payrollColumns)

	doc, err := scanPayrollDocument(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, payroll.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get payroll document: %w", err)
	}

	return doc, nil
}

func (r *payrollRepository) ListPeriodsContaining(ctx context.Context, projectID, date string) ([]*payroll.Document, error) {
	q := GetQuerier(ctx, r.db)

	// Containment is inclusive on both bounds; the dates are fixed-width
	// ISO strings so <= and >= compare chronologically.
	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_documents
		WHERE project_id = $1
		  AND payroll_period_start <= $2
		  AND payroll_period_end >= $2
		ORDER BY payroll_period_start
	`, payrollColumns)

	rows, err := q.Query(ctx, query, projectID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll documents: %w", err)
	}
	defer rows.Close()

	var docs []*payroll.Document
	for rows.Next() {
		doc, err := scanPayrollDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll document: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (r *payrollRepository) UpdateValidation(ctx context.Context, documentID string, result *payroll.ValidationResult, status payroll.ValidationStatus) error {
	q := GetQuerier(ctx, r.db)
	return updateValidation(ctx, q, documentID, result, status)
}

// UpdateValidationBatch persists every update inside one transaction.
func (r *payrollRepository) UpdateValidationBatch(ctx context.Context, updates []payroll.ValidationUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		for _, u := range updates {
			if err := updateValidation(txCtx, tx, u.DocumentID, u.Result, u.Status); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateValidation(ctx context.Context, q database.Querier, documentID string, result *payroll.ValidationResult, status payroll.ValidationStatus) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal validation results: %w", err)
	}

	query := `
		UPDATE payroll_documents
		SET validation_results = $1, validation_status = $2, validated_at = $3
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, resultJSON, string(status), time.Now(), documentID)
	if err != nil {
		return fmt.Errorf("failed to update payroll validation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrDocumentNotFound
	}

	return nil
}

func scanPayrollDocument(row pgx.Row) (*payroll.Document, error) {
	var doc payroll.Document
	var itemsJSON, resultJSON []byte
	var status string

	err := row.Scan(
		&doc.ID,
		&doc.ProjectID,
		&doc.PayrollPeriodStart,
		&doc.PayrollPeriodEnd,
		&itemsJSON,
		&resultJSON,
		&status,
		&doc.ValidatedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.ValidationStatus = payroll.ValidationStatus(status)
	if itemsJSON != nil {
		if err := json.Unmarshal(itemsJSON, &doc.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payroll items: %w", err)
		}
	}
	if resultJSON != nil {
		if err := json.Unmarshal(resultJSON, &doc.ValidationResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal validation results: %w", err)
		}
	}

	return &doc, nil
}
