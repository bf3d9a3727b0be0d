package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/centroimagen/booking-api/pkg/database"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

const appointmentColumns = `id, identity_id, service_id, service_name, center_id, center_name,
		date, time, status, price, COALESCE(notes, ''), created_at, updated_at`

// Repository implements appointment persistence over PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new appointment repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// Create inserts a new appointment
func (r *Repository) Create(ctx context.Context, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (id, identity_id, service_id, service_name, center_id, center_name,
			date, time, status, price, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13)`

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	now := time.Now()
	apt.CreatedAt = now
	apt.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		apt.ID, apt.IdentityID, apt.ServiceID, apt.ServiceName,
		apt.CenterID, apt.CenterName, apt.Date, apt.Time,
		apt.Status, apt.Price, apt.Notes, apt.CreatedAt, apt.UpdatedAt,
	)
	if err != nil {
		if ctx.Err() != nil {
			return types.NewTimeoutError(types.ErrCodeTimeout, "appointment creation timed out", err)
		}
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to create appointment", err)
	}
	return nil
}

// GetByID retrieves an appointment by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	apt, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("APPOINTMENT_NOT_FOUND", "Appointment not found")
		}
		if ctx.Err() != nil {
			return nil, types.NewTimeoutError(types.ErrCodeTimeout, "appointment lookup timed out", err)
		}
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to get appointment", err)
	}
	return apt, nil
}

// List retrieves appointments matching the filters, newest first
func (r *Repository) List(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE 1=1`, appointmentColumns)
	args := []interface{}{}
	argCount := 0

	if filters.IdentityID != "" {
		argCount++
		query += fmt.Sprintf(" AND identity_id = $%d", argCount)
		args = append(args, filters.IdentityID)
	}
	if filters.CenterID != "" {
		argCount++
		query += fmt.Sprintf(" AND center_id = $%d", argCount)
		args = append(args, filters.CenterID)
	}
	if filters.Status != "" {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
	}
	if filters.FromDate != "" {
		argCount++
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filters.FromDate)
	}
	if filters.ToDate != "" {
		argCount++
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filters.ToDate)
	}

	query += " ORDER BY date DESC, time DESC"

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
			return nil, types.NewTimeoutError(types.ErrCodeTimeout, "appointment listing timed out", err)
		}
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to scan appointment", err)
		}
		appointments = append(appointments, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to read appointments", err)
	}
	return appointments, nil
}

// UpdateStatus conditionally moves the appointment between the two given
// statuses. Zero affected rows means a concurrent transition won; the
// caller gets a conflict, never a silent overwrite.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to types.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		if ctx.Err() != nil {
			return types.NewTimeoutError(types.ErrCodeTimeout, "status update timed out", err)
		}
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to update appointment status", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to confirm status update", err)
	}
	if affected == 0 {
		return types.NewConflictError(types.ErrCodeConflict,
			fmt.Sprintf("appointment is no longer %s", from))
	}
	return nil
}

// CompleteWithResult sets the appointment to completed and inserts its
// result row in one transaction. Either both writes land or neither does.
func (r *Repository) CompleteWithResult(ctx context.Context, aptID string, result *types.Result) error {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE appointments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status NOT IN ($3, $4, $5)`,
		types.AppointmentCompleted, aptID,
		types.AppointmentCompleted, types.AppointmentCancelled, types.AppointmentNoShow,
	)
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to complete appointment", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to confirm completion", err)
	}
	if affected == 0 {
		return types.NewConflictError(types.ErrCodeConflict, "appointment cannot be completed from its current status")
	}

	now := time.Now()
	result.CreatedAt = now
	result.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results (id, appointment_id, identity_id, service_name, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.ID, result.AppointmentID, result.IdentityID,
		result.ServiceName, result.Date, result.Status,
		result.CreatedAt, result.UpdatedAt,
	)
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to create result", err)
	}

	if err := tx.Commit(); err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to commit completion", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*types.Appointment, error) {
	var apt types.Appointment
	err := row.Scan(
		&apt.ID, &apt.IdentityID, &apt.ServiceID, &apt.ServiceName,
		&apt.CenterID, &apt.CenterName, &apt.Date, &apt.Time,
		&apt.Status, &apt.Price, &apt.Notes, &apt.CreatedAt, &apt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &apt, nil
}

var _ interfaces.AppointmentRepository = (*Repository)(nil)
