package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/centroimagen/booking-api/pkg/database"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// IdentityRepository implements identity persistence over PostgreSQL.
// Password hashes never leave this type.
type IdentityRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *database.DB, log *logger.Logger) *IdentityRepository {
	return &IdentityRepository{
		db:     db,
		logger: log,
	}
}

// FindByCredentials looks up an identity by exact email match and verifies
// the password against the stored bcrypt hash. Unknown email and wrong
// password return the same generic authentication error, so callers cannot
// distinguish the two.
func (r *IdentityRepository) FindByCredentials(ctx context.Context, email, password string) (*types.Identity, error) {
	query := `
		SELECT id, email, name, role, phone, city, COALESCE(dni, ''), password_hash, created_at, updated_at
		FROM identities
		WHERE email = $1`

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	var identity types.Identity
	var passwordHash string

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&identity.Role,
		&identity.Phone,
		&identity.City,
		&identity.DNI,
		&passwordHash,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invalidCredentials()
		}
		if ctx.Err() != nil {
			return nil, types.NewTimeoutError(types.ErrCodeTimeout, "identity lookup timed out", err)
		}
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to look up identity", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	return &identity, nil
}

// GetByID retrieves an identity by ID
func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*types.Identity, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail retrieves an identity by email
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*types.Identity, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *IdentityRepository) getOne(ctx context.Context, where string, arg interface{}) (*types.Identity, error) {
	query := fmt.Sprintf(`
		SELECT id, email, name, role, phone, city, COALESCE(dni, ''), created_at, updated_at
		FROM identities
		WHERE %s`, where)

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	var identity types.Identity
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&identity.Role,
		&identity.Phone,
		&identity.City,
		&identity.DNI,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("IDENTITY_NOT_FOUND", "Identity not found")
		}
		if ctx.Err() != nil {
			return nil, types.NewTimeoutError(types.ErrCodeTimeout, "identity lookup timed out", err)
		}
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to get identity", err)
	}

	return &identity, nil
}

// List returns identities for administrative views, newest first. Search
// matches name and email case-insensitively.
func (r *IdentityRepository) List(ctx context.Context, filters *types.IdentityFilters) ([]*types.Identity, error) {
	query := `
		SELECT id, email, name, role, phone, city, COALESCE(dni, ''), created_at, updated_at
		FROM identities
		WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters != nil {
		if filters.Role != "" {
			argCount++
			query += fmt.Sprintf(" AND role = $%d", argCount)
			args = append(args, filters.Role)
		}
		if filters.City != "" {
			argCount++
			query += fmt.Sprintf(" AND city = $%d", argCount)
			args = append(args, filters.City)
		}
		if filters.Search != "" {
			argCount++
			query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argCount, argCount)
			args = append(args, "%"+filters.Search+"%")
		}
	}

	query += " ORDER BY created_at DESC"

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, types.NewTimeoutError(types.ErrCodeTimeout, "identity listing timed out", err)
		}
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to list identities", err)
	}
	defer rows.Close()

	identities := []*types.Identity{}
	for rows.Next() {
		var identity types.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.Email,
			&identity.Name,
			&identity.Role,
			&identity.Phone,
			&identity.City,
			&identity.DNI,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		); err != nil {
			return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to scan identity", err)
		}
		identities = append(identities, &identity)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError(types.ErrCodeStorageFailure, "failed to list identities", err)
	}

	return identities, nil
}

// Create stores a new identity with a freshly hashed password
func (r *IdentityRepository) Create(ctx context.Context, identity *types.Identity, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO identities (id, email, name, role, phone, city, dni, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	now := time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		identity.ID,
		identity.Email,
		identity.Name,
		identity.Role,
		identity.Phone,
		identity.City,
		identity.DNI,
		string(hash),
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Detail, "email") {
				return types.NewValidationError("EMAIL_EXISTS", "An account with this email already exists", nil)
			}
			return types.NewValidationError("DUPLICATE_IDENTITY", "Identity already exists", nil)
		}
		if ctx.Err() != nil {
			return types.NewTimeoutError(types.ErrCodeTimeout, "identity creation timed out", err)
		}
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to create identity", err)
	}

	r.logger.WithIdentityID(identity.ID).Info("Identity created successfully")
	return nil
}

func invalidCredentials() *types.AppError {
	return types.NewAuthenticationError(types.ErrCodeInvalidCredentials, "Invalid email or password")
}

var _ interfaces.IdentityRepository = (*IdentityRepository)(nil)
