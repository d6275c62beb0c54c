package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seomaster/internal/models"
)

// CallRepository persists the generation-call audit log.
//
// Expected table:
//
//	CREATE TABLE call_records (
//	    id UUID PRIMARY KEY,
//	    request_id UUID NOT NULL,
//	    project_id TEXT NOT NULL,
//	    operation TEXT NOT NULL,
//	    platform TEXT NOT NULL DEFAULT '',
//	    model_name TEXT NOT NULL,
//	    provenance TEXT NOT NULL DEFAULT '',
//	    response_time_ms INT NOT NULL,
//	    succeeded BOOLEAN NOT NULL,
//	    error_message TEXT NOT NULL DEFAULT '',
//	    params JSONB,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type CallRepository struct {
	db *DB
}

// NewCallRepository creates a new call-audit repository
func NewCallRepository(db *DB) *CallRepository {
	return &CallRepository{db: db}
}

// Create inserts a single call record
func (r *CallRepository) Create(ctx context.Context, record *models.CallRecord) error {
	query := `
		INSERT INTO call_records (id, request_id, project_id, operation, platform,
		                          model_name, provenance, response_time_ms,
		                          succeeded, error_message, params, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.conn.ExecContext(
		ctx, query,
		record.ID, record.RequestID, record.ProjectID, record.Operation, record.Platform,
		record.ModelName, record.Provenance, record.ResponseTimeMS,
		record.Succeeded, record.ErrorMessage, record.Params, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call record: %w", err)
	}

	return nil
}

// GetByID retrieves a call record by id
func (r *CallRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CallRecord, error) {
	var record models.CallRecord
	query := `
		SELECT id, request_id, project_id, operation, platform, model_name,
		       provenance, response_time_ms, succeeded, error_message, params, created_at
		FROM call_records
		WHERE id = $1
	`

	err := r.db.conn.GetContext(ctx, &record, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCallRecordNotFound
		}
		return nil, fmt.Errorf("failed to get call record: %w", err)
	}

	return &record, nil
}

// ListByProject returns the most recent call records for a project
func (r *CallRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]*models.CallRecord, error) {
	query := `
		SELECT id, request_id, project_id, operation, platform, model_name,
		       provenance, response_time_ms, succeeded, error_message, params, created_at
		FROM call_records
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var records []*models.CallRecord
	err := r.db.conn.SelectContext(ctx, &records, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list call records: %w", err)
	}

	return records, nil
}

// CountSince counts calls attempted since the given time, across projects
func (r *CallRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.conn.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM call_records WHERE created_at >= $1", since)
	if err != nil {
		return 0, fmt.Errorf("failed to count call records: %w", err)
	}
	return count, nil
}
