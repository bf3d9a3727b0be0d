package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/monitoring"
	"github.com/centroimagen/booking-api/pkg/types"
)

const (
	sessionBucket = "session"
	currentKey    = "current_identity"
)

// BoltStore persists the current identity in a bbolt key-value file.
// At most one identity is stored; writes either complete or report a
// storage failure, no partial state is ever visible to callers.
type BoltStore struct {
	db        *bolt.DB
	logger    *logger.Logger
	ioTimeout time.Duration
}

// NewBoltStore opens (or creates) the session store file
func NewBoltStore(path string, ioTimeout time.Duration, log *logger.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: ioTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	log.Info("Session store opened successfully")
	return &BoltStore{
		db:        db,
		logger:    log,
		ioTimeout: ioTimeout,
	}, nil
}

// Load reads the persisted identity. Absence and malformed payloads both
// yield (nil, nil); a malformed payload is logged and treated as no session.
func (s *BoltStore) Load(ctx context.Context) (*types.Identity, error) {
	var raw []byte

	err := s.bounded(ctx, func(ctx context.Context) error {
		return s.db.View(func(tx *bolt.Tx) error {
			data := tx.Bucket([]byte(sessionBucket)).Get([]byte(currentKey))
			if data != nil {
				raw = make([]byte, len(data))
				copy(raw, data)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, nil
	}

	var identity types.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		s.logger.WithError(err).Warn("Persisted session is malformed, treating as no session")
		return nil, nil
	}

	return &identity, nil
}

// Save persists the identity as the current session
func (s *BoltStore) Save(ctx context.Context, identity *types.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return types.NewStorageError(types.ErrCodeStorageFailure, "failed to encode identity", err)
	}

	err = s.bounded(ctx, func(ctx context.Context) error {
		return s.db.Update(func(tx *bolt.Tx) error {
			// An expired context must not commit after the caller was
			// already told the operation timed out.
			if err := ctx.Err(); err != nil {
				return err
			}
			return tx.Bucket([]byte(sessionBucket)).Put([]byte(currentKey), data)
		})
	})
	if err != nil {
		return err
	}

	s.logger.WithIdentityID(identity.ID).Debug("Session persisted")
	return nil
}

// Clear removes the persisted identity
func (s *BoltStore) Clear(ctx context.Context) error {
	return s.bounded(ctx, func(ctx context.Context) error {
		return s.db.Update(func(tx *bolt.Tx) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return tx.Bucket([]byte(sessionBucket)).Delete([]byte(currentKey))
		})
	})
}

// Close closes the underlying bbolt file
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// HealthCheck reports whether the store file is readable. It satisfies
// the monitoring CustomHealthChecker callback shape.
func (s *BoltStore) HealthCheck(ctx context.Context) monitoring.HealthCheck {
	check := monitoring.HealthCheck{
		Details: map[string]interface{}{
			"path": s.db.Path(),
		},
	}

	if _, err := s.Load(ctx); err != nil {
		check.Status = monitoring.HealthStatusUnhealthy
		check.Message = fmt.Sprintf("Session store read failed: %v", err)
		return check
	}

	check.Status = monitoring.HealthStatusHealthy
	check.Message = "Session store readable"
	return check
}

// bounded runs a store operation under the configured I/O timeout and
// maps the outcome onto the storage/timeout error kinds. The operation
// receives the bounded context; write operations check it again inside
// their transaction so a timed-out call does not commit behind the
// caller's back.
func (s *BoltStore) bounded(ctx context.Context, op func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.ioTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return types.NewStorageError(types.ErrCodeStorageFailure, "session store operation failed", err)
		}
		return nil
	case <-ctx.Done():
		return types.NewTimeoutError(types.ErrCodeTimeout, "session store operation timed out", ctx.Err())
	}
}

var _ interfaces.SessionStore = (*BoltStore)(nil)
