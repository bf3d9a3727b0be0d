package session

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/centroimagen/booking-api/pkg/database"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

func setupMockRepository(t *testing.T) (*IdentityRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &database.DB{DB: mockDB}
	return NewIdentityRepository(db, logger.New("debug")), mock
}

func identityColumns() []string {
	return []string{"id", "email", "name", "role", "phone", "city", "dni", "password_hash", "created_at", "updated_at"}
}

func TestIdentityRepository_FindByCredentials(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("valid credentials return the identity without the hash", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		rows := sqlmock.NewRows(identityColumns()).
			AddRow("admin-id", "admin@centroimagen.com", "Administrador", "admin", "0999999999", "Quito", "", string(hash), now, now)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, role, phone, city, COALESCE(dni, ''), password_hash, created_at, updated_at")).
			WithArgs("admin@centroimagen.com").
			WillReturnRows(rows)

		identity, err := repo.FindByCredentials(ctx, "admin@centroimagen.com", "admin123")

		require.NoError(t, err)
		assert.Equal(t, "admin-id", identity.ID)
		assert.Equal(t, types.RoleAdmin, identity.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password returns the generic credentials error", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		rows := sqlmock.NewRows(identityColumns()).
			AddRow("admin-id", "admin@centroimagen.com", "Administrador", "admin", "0999999999", "Quito", "", string(hash), now, now)
		mock.ExpectQuery("SELECT").WithArgs("admin@centroimagen.com").WillReturnRows(rows)

		_, err := repo.FindByCredentials(ctx, "admin@centroimagen.com", "wrongpass")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrCodeInvalidCredentials, appErr.Code)
	})

	t.Run("unknown email returns the same generic error", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		mock.ExpectQuery("SELECT").WithArgs("ghost@test.com").
			WillReturnRows(sqlmock.NewRows(identityColumns()))

		_, err := repo.FindByCredentials(ctx, "ghost@test.com", "admin123")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeAuthentication, appErr.Type)
		assert.Equal(t, types.ErrCodeInvalidCredentials, appErr.Code)
	})
}

func TestIdentityRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts the identity with a hashed password", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO identities")).
			WithArgs("new-id", "maria@example.com", "María López", "user", "0991234567", "Guayaquil",
				"0912345678", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, &types.Identity{
			ID:    "new-id",
			Email: "maria@example.com",
			Name:  "María López",
			Role:  types.RoleUser,
			Phone: "0991234567",
			City:  "Guayaquil",
			DNI:   "0912345678",
		}, "secret1")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIdentityRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("missing identity yields not found", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		mock.ExpectQuery("SELECT").WithArgs("missing-id").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "phone", "city", "dni", "created_at", "updated_at"}))

		_, err := repo.GetByID(ctx, "missing-id")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeNotFound, appErr.Type)
	})

	t.Run("existing identity is returned", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "phone", "city", "dni", "created_at", "updated_at"}).
			AddRow("user-id", "usuario@test.com", "Juan Pérez", "user", "0987654321", "Quito", "1720000000", now, now)
		mock.ExpectQuery("SELECT").WithArgs("user-id").WillReturnRows(rows)

		identity, err := repo.GetByID(ctx, "user-id")

		require.NoError(t, err)
		assert.Equal(t, "usuario@test.com", identity.Email)
		assert.Equal(t, "1720000000", identity.DNI)
	})
}

func TestIdentityRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	listColumns := []string{"id", "email", "name", "role", "phone", "city", "dni", "created_at", "updated_at"}

	t.Run("unfiltered listing returns every identity", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		rows := sqlmock.NewRows(listColumns).
			AddRow("admin-id", "admin@centroimagen.com", "Administrador", "admin", "0999999999", "Quito", "", now, now).
			AddRow("user-id", "usuario@test.com", "Juan Pérez", "user", "0987654321", "Quito", "1720000000", now, now)
		mock.ExpectQuery(regexp.QuoteMeta("FROM identities")).
			WillReturnRows(rows)

		identities, err := repo.List(ctx, nil)

		require.NoError(t, err)
		require.Len(t, identities, 2)
		assert.Equal(t, "admin@centroimagen.com", identities[0].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search filter parameterizes the pattern", func(t *testing.T) {
		repo, mock := setupMockRepository(t)

		rows := sqlmock.NewRows(listColumns).
			AddRow("user-id", "usuario@test.com", "Juan Pérez", "user", "0987654321", "Quito", "1720000000", now, now)
		mock.ExpectQuery(regexp.QuoteMeta("name ILIKE $1 OR email ILIKE $1")).
			WithArgs("%juan%").
			WillReturnRows(rows)

		identities, err := repo.List(ctx, &types.IdentityFilters{Search: "juan"})

		require.NoError(t, err)
		require.Len(t, identities, 1)
		assert.Equal(t, "Juan Pérez", identities[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
