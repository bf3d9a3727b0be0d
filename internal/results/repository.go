package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/centroimagen/booking-api/pkg/database"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

const resultColumns = `id, appointment_id, identity_id, service_name, date,
		COALESCE(doctor, ''), status, COALESCE(diagnosis, ''), COALESCE(recommendations, ''),
		created_at, updated_at`

// Repository implements result persistence over PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new result repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// GetByID retrieves a result with its attachments
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Result, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByAppointmentID retrieves the result tied to an appointment
func (r *Repository) GetByAppointmentID(ctx context.Context, aptID string) (*types.Result, error) {
	return r.getOne(ctx, "appointment_id = $1", aptID)
}

func (r *Repository) getOne(ctx context.Context, where string, arg interface{}) (*types.Result, error) {
	query := fmt.Sprintf(`SELECT %s FROM results WHERE %s`, resultColumns, where)

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	result, err := scanResult(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("RESULT_NOT_FOUND", "Result not found")
		}
		if ctx.Err() != nil {
			return nil, types.NewTimeoutError(types.ErrCodeTimeout, "result lookup timed out", err)
		}
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to get result", err)
	}

	if err := r.loadAttachments(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// List retrieves results matching the filters, newest first
func (r *Repository) List(ctx context.Context, filters *types.ResultFilters) ([]*types.Result, error) {
	query := fmt.Sprintf(`SELECT %s FROM results WHERE 1=1`, resultColumns)
	args := []interface{}{}
	argCount := 0

	if filters.IdentityID != "" {
		argCount++
		query += fmt.Sprintf(" AND identity_id = $%d", argCount)
		args = append(args, filters.IdentityID)
	}
	if filters.AppointmentID != "" {
		argCount++
		query += fmt.Sprintf(" AND appointment_id = $%d", argCount)
		args = append(args, filters.AppointmentID)
	}
	if filters.Status != "" {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
	}

	query += " ORDER BY date DESC"

	if filters.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filters.Offset)
	}

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, types.NewTimeoutError(types.ErrCodeTimeout, "result listing timed out", err)
		}
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to list results", err)
	}
	defer rows.Close()

	var results []*types.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to scan result", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to read results", err)
	}

	for _, result := range results {
		if err := r.loadAttachments(ctx, result); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// UpdateStatus conditionally moves the result between the two given statuses
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to types.ResultStatus) error {
	query := `
		UPDATE results
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		if ctx.Err() != nil {
			return types.NewTimeoutError(types.ErrCodeTimeout, "result status update timed out", err)
		}
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to update result status", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to confirm result update", err)
	}
	if affected == 0 {
		return types.NewConflictError(types.ErrCodeConflict,
			fmt.Sprintf("result is no longer %s", from))
	}
	return nil
}

// CompleteUpload stores the clinical fields and attachments and moves the
// result from ready to completed in one transaction. The conditional WHERE
// makes a duplicate upload lose with zero affected rows, so it is rejected
// as a conflict instead of applied twice.
func (r *Repository) CompleteUpload(ctx context.Context, id string, upload *types.ResultUpload) error {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE results
		SET status = $1, doctor = $2, diagnosis = $3, recommendations = NULLIF($4, ''), updated_at = NOW()
		WHERE id = $5 AND status = $6`,
		types.ResultCompleted, upload.Doctor, upload.Diagnosis,
		upload.Recommendations, id, types.ResultReady,
	)
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to complete result", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to confirm result completion", err)
	}
	if affected == 0 {
		return types.NewConflictError(types.ErrCodeConflict, "result is not ready for upload")
	}

	insert := `
		INSERT INTO result_attachments (id, result_id, kind, file_name, uri, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`

	now := time.Now()
	for _, att := range upload.Images {
		if _, err := tx.ExecContext(ctx, insert,
			uuid.New().String(), id, types.AttachmentImage,
			att.FileName, att.URI, att.MimeType, now); err != nil {
			return types.NewStorageError(types.ErrCodeStorageFailure, "failed to store image attachment", err)
		}
	}
	for _, att := range upload.Documents {
		if _, err := tx.ExecContext(ctx, insert,
			uuid.New().String(), id, types.AttachmentDocument,
			att.FileName, att.URI, att.MimeType, now); err != nil {
			return types.NewStorageError(types.ErrCodeStorageFailure, "failed to store document attachment", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to commit result upload", err)
	}
	return nil
}

func (r *Repository) loadAttachments(ctx context.Context, result *types.Result) error {
	query := `
		SELECT id, result_id, kind, file_name, uri, COALESCE(mime_type, ''), created_at
		FROM result_attachments
		WHERE result_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, result.ID)
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to load attachments", err)
	}
	defer rows.Close()

	for rows.Next() {
		var att types.Attachment
		if err := rows.Scan(&att.ID, &att.ResultID, &att.Kind, &att.FileName,
			&att.URI, &att.MimeType, &att.CreatedAt); err != nil {
			return types.NewStorageError(types.ErrCodeStorageFailure, "failed to scan attachment", err)
		}
		switch att.Kind {
		case types.AttachmentImage:
			result.Images = append(result.Images, att)
		default:
			result.Documents = append(result.Documents, att)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*types.Result, error) {
	var result types.Result
	err := row.Scan(
		&result.ID, &result.AppointmentID, &result.IdentityID,
		&result.ServiceName, &result.Date, &result.Doctor,
		&result.Status, &result.Diagnosis, &result.Recommendations,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ interfaces.ResultRepository = (*Repository)(nil)
