package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/monitoring"
	"github.com/centroimagen/booking-api/pkg/types"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := NewBoltStore(path, 2*time.Second, logger.New("debug"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()

	t.Run("load on a fresh store yields no session and no error", func(t *testing.T) {
		store := openTestStore(t)

		identity, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("saved identity survives a reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.db")
		log := logger.New("debug")

		store, err := NewBoltStore(path, 2*time.Second, log)
		require.NoError(t, err)

		saved := &types.Identity{
			ID:    "user-1",
			Email: "usuario@test.com",
			Name:  "Juan Pérez",
			Role:  types.RoleUser,
			Phone: "0987654321",
			City:  "Quito",
		}
		require.NoError(t, store.Save(ctx, saved))
		require.NoError(t, store.Close())

		reopened, err := NewBoltStore(path, 2*time.Second, log)
		require.NoError(t, err)
		defer reopened.Close()

		loaded, err := reopened.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, saved.ID, loaded.ID)
		assert.Equal(t, saved.Email, loaded.Email)
		assert.Equal(t, saved.Role, loaded.Role)
	})

	t.Run("save overwrites the previous identity", func(t *testing.T) {
		store := openTestStore(t)

		require.NoError(t, store.Save(ctx, &types.Identity{ID: "first", Email: "a@test.com"}))
		require.NoError(t, store.Save(ctx, &types.Identity{ID: "second", Email: "b@test.com"}))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.ID)
	})

	t.Run("clear removes the identity and is idempotent", func(t *testing.T) {
		store := openTestStore(t)

		require.NoError(t, store.Save(ctx, &types.Identity{ID: "user-1"}))
		require.NoError(t, store.Clear(ctx))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		assert.NoError(t, store.Clear(ctx))
	})

	t.Run("malformed payload is treated as no session", func(t *testing.T) {
		store := openTestStore(t)

		err := store.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(sessionBucket)).Put([]byte(currentKey), []byte("{not json"))
		})
		require.NoError(t, err)

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("cancelled context reports a timeout error", func(t *testing.T) {
		store := openTestStore(t)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := store.Save(cancelled, &types.Identity{ID: "user-1"})
		if err != nil {
			appErr, ok := err.(*types.AppError)
			require.True(t, ok)
			assert.Equal(t, types.ErrorTypeTimeout, appErr.Type)
		}
	})

	t.Run("timed-out save does not commit behind the caller's back", func(t *testing.T) {
		store := openTestStore(t)

		require.NoError(t, store.Save(ctx, &types.Identity{ID: "first"}))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := store.Save(cancelled, &types.Identity{ID: "second"})
		require.Error(t, err)

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "first", loaded.ID)
	})
}

func TestBoltStore_HealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("open store reports healthy", func(t *testing.T) {
		store := openTestStore(t)

		check := store.HealthCheck(ctx)
		assert.Equal(t, monitoring.HealthStatusHealthy, check.Status)
		assert.NotEmpty(t, check.Details["path"])
	})

	t.Run("closed store reports unhealthy", func(t *testing.T) {
		store := openTestStore(t)
		require.NoError(t, store.Close())

		check := store.HealthCheck(ctx)
		assert.Equal(t, monitoring.HealthStatusUnhealthy, check.Status)
	})
}
