package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/types"
)

type memoryRecord struct {
	identity     types.Identity
	passwordHash []byte
}

// MemoryIdentityRepository is an in-memory identity repository seeded with
// the two well-known accounts. It backs tests and standalone mode, where
// no PostgreSQL instance is available.
type MemoryIdentityRepository struct {
	mu      sync.RWMutex
	byID    map[string]*memoryRecord
	byEmail map[string]*memoryRecord
}

// NewMemoryIdentityRepository creates a seeded in-memory repository
func NewMemoryIdentityRepository() *MemoryIdentityRepository {
	r := &MemoryIdentityRepository{
		byID:    make(map[string]*memoryRecord),
		byEmail: make(map[string]*memoryRecord),
	}

	now := time.Now()
	r.seed(types.Identity{
		ID:        "11111111-1111-1111-1111-111111111111",
		Email:     "admin@centroimagen.com",
		Name:      "Administrador",
		Role:      types.RoleAdmin,
		Phone:     "0999999999",
		City:      "Quito",
		CreatedAt: now,
		UpdatedAt: now,
	}, "admin123")
	r.seed(types.Identity{
		ID:        "22222222-2222-2222-2222-222222222222",
		Email:     "usuario@test.com",
		Name:      "Juan Pérez",
		Role:      types.RoleUser,
		Phone:     "0987654321",
		City:      "Quito",
		DNI:       "1720000000",
		CreatedAt: now,
		UpdatedAt: now,
	}, "user123")

	return r
}

func (r *MemoryIdentityRepository) seed(identity types.Identity, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	rec := &memoryRecord{identity: identity, passwordHash: hash}
	r.byID[identity.ID] = rec
	r.byEmail[identity.Email] = rec
}

// FindByCredentials behaves like the PostgreSQL repository: exact email
// match plus bcrypt verification, with a single generic failure mode.
func (r *MemoryIdentityRepository) FindByCredentials(ctx context.Context, email, password string) (*types.Identity, error) {
	r.mu.RLock()
	rec, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	identity := rec.identity
	return &identity, nil
}

// GetByID retrieves an identity by ID
func (r *MemoryIdentityRepository) GetByID(ctx context.Context, id string) (*types.Identity, error) {
	r.mu.RLock()
	rec, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return nil, types.NewNotFoundError("IDENTITY_NOT_FOUND", "Identity not found")
	}
	identity := rec.identity
	return &identity, nil
}

// GetByEmail retrieves an identity by email
func (r *MemoryIdentityRepository) GetByEmail(ctx context.Context, email string) (*types.Identity, error) {
	r.mu.RLock()
	rec, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return nil, types.NewNotFoundError("IDENTITY_NOT_FOUND", "Identity not found")
	}
	identity := rec.identity
	return &identity, nil
}

// Create stores a new identity, rejecting duplicate emails
func (r *MemoryIdentityRepository) Create(ctx context.Context, identity *types.Identity, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	email := strings.ToLower(identity.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return types.NewValidationError("EMAIL_EXISTS", "An account with this email already exists", nil)
	}

	now := time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	rec := &memoryRecord{identity: *identity, passwordHash: hash}
	r.byID[identity.ID] = rec
	r.byEmail[email] = rec
	return nil
}

// List returns identities matching the filters, like the PostgreSQL
// repository does. Ordering is not guaranteed.
func (r *MemoryIdentityRepository) List(ctx context.Context, filters *types.IdentityFilters) ([]*types.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := []*types.Identity{}
	for _, rec := range r.byID {
		if filters != nil {
			if filters.Role != "" && rec.identity.Role != filters.Role {
				continue
			}
			if filters.City != "" && rec.identity.City != filters.City {
				continue
			}
			if filters.Search != "" {
				needle := strings.ToLower(filters.Search)
				if !strings.Contains(strings.ToLower(rec.identity.Name), needle) &&
					!strings.Contains(strings.ToLower(rec.identity.Email), needle) {
					continue
				}
			}
		}
		identity := rec.identity
		identities = append(identities, &identity)
	}
	return identities, nil
}

var _ interfaces.IdentityRepository = (*MemoryIdentityRepository)(nil)
