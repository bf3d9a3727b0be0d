package session

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/centroimagen/booking-api/pkg/config"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/monitoring"
	"github.com/centroimagen/booking-api/pkg/types"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

// Notifier greets freshly registered identities. Delivery failures are
// the notifier's problem; registration never waits on them.
type Notifier interface {
	Welcome(identity *types.Identity)
}

// Service implements the session contract: it owns the single current
// identity, persists it through the session store, and issues the JWT
// pair backing the HTTP surface.
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	metrics    *monitoring.MetricsCollector
	repository interfaces.IdentityRepository
	store      interfaces.SessionStore
	notifier   Notifier

	mu      sync.RWMutex
	current *types.Identity
}

// NewService creates a new session service
func NewService(cfg *config.Config, log *logger.Logger, metrics *monitoring.MetricsCollector, repo interfaces.IdentityRepository, store interfaces.SessionStore, notifier Notifier) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		metrics:    metrics,
		repository: repo,
		store:      store,
		notifier:   notifier,
	}
}

// Load restores the persisted identity into memory. A missing or
// unreadable record is not an error; the session simply starts logged out.
func (s *Service) Load(ctx context.Context) (*types.Identity, error) {
	identity, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = identity
	s.mu.Unlock()

	if identity != nil {
		s.logger.WithIdentityID(identity.ID).Info("Session restored from store")
	}
	return identity, nil
}

// Login authenticates credentials, persists the identity as the current
// session, and issues a token pair. The repository guarantees that unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds *types.Credentials) (*types.Identity, *types.AuthToken, error) {
	if creds == nil || strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, nil, types.NewValidationError(types.ErrCodeInvalidInput, "Email and password are required", nil)
	}

	// Emails are stored lowercased; normalize the same way here so the
	// credential the user registered with always matches.
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	identity, err := s.repository.FindByCredentials(ctx, email, creds.Password)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordAuthAttempt("login", "failure")
		}
		s.logger.WithField("email", email).Warn("Login failed")
		return nil, nil, err
	}

	if err := s.store.Save(ctx, identity); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.current = identity
	s.mu.Unlock()

	token, err := s.issueTokenPair(identity)
	if err != nil {
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordAuthAttempt("login", "success")
	}
	s.logger.Audit(identity.ID, "login", "session", true, map[string]interface{}{
		"role": identity.Role,
	})

	return identity, token, nil
}

// Register validates the request, creates a new identity with role forced
// to "user", and logs it in.
func (s *Service) Register(ctx context.Context, req *types.RegistrationRequest) (*types.Identity, *types.AuthToken, error) {
	if err := validateRegistration(req); err != nil {
		return nil, nil, err
	}

	identity := &types.Identity{
		ID:    uuid.New().String(),
		Email: strings.TrimSpace(strings.ToLower(req.Email)),
		Name:  strings.TrimSpace(req.Name),
		Role:  types.RoleUser,
		Phone: req.Phone,
		City:  strings.TrimSpace(req.City),
		DNI:   req.DNI,
	}

	if err := s.repository.Create(ctx, identity, req.Password); err != nil {
		if s.metrics != nil {
			s.metrics.RecordAuthAttempt("register", "failure")
		}
		return nil, nil, err
	}

	if err := s.store.Save(ctx, identity); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.current = identity
	s.mu.Unlock()

	token, err := s.issueTokenPair(identity)
	if err != nil {
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordAuthAttempt("register", "success")
	}
	s.logger.Audit(identity.ID, "register", "session", true, nil)

	if s.notifier != nil {
		s.notifier.Welcome(identity)
	}

	return identity, token, nil
}

// Logout clears both the persisted and in-memory identity. Logging out
// an already logged-out session is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	previous := s.current
	s.current = nil
	s.mu.Unlock()

	if previous != nil {
		s.logger.Audit(previous.ID, "logout", "session", true, nil)
	}
	return nil
}

// Current returns the in-memory current identity, nil when logged out
func (s *Service) Current() *types.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ListIdentities returns registered identities for the administrative
// user view
func (s *Service) ListIdentities(ctx context.Context, filters *types.IdentityFilters) ([]*types.Identity, error) {
	return s.repository.List(ctx, filters)
}

// ValidateToken parses and validates a session access token
func (s *Service) ValidateToken(tokenString string) (*types.SessionClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if kind, _ := claims["token_type"].(string); kind != "access" {
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Invalid token type")
	}

	return claimsFromMap(claims)
}

// RefreshToken issues a new token pair from a valid refresh token
func (s *Service) RefreshToken(refreshToken string) (*types.AuthToken, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if kind, _ := claims["token_type"].(string); kind != "refresh" {
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Invalid token type")
	}

	sc, err := claimsFromMap(claims)
	if err != nil {
		return nil, err
	}

	return s.issueTokenPair(&types.Identity{
		ID:    sc.IdentityID,
		Email: sc.Email,
		Role:  sc.Role,
	})
}

func (s *Service) issueTokenPair(identity *types.Identity) (*types.AuthToken, error) {
	now := time.Now()
	accessTTL := time.Duration(s.config.JWT.AccessTokenTTL) * time.Second
	refreshTTL := time.Duration(s.config.JWT.RefreshTokenTTL) * time.Second

	access, err := s.signToken(identity, "access", now, accessTTL)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to sign access token", err)
	}

	refresh, err := s.signToken(identity, "refresh", now, refreshTTL)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to sign refresh token", err)
	}

	return &types.AuthToken{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTTL.Seconds()),
		IssuedAt:     now,
	}, nil
}

func (s *Service) signToken(identity *types.Identity, kind string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"identity_id": identity.ID,
		"email":       identity.Email,
		"role":        string(identity.Role),
		"token_type":  kind,
		"iss":         s.config.JWT.Issuer,
		"aud":         s.config.JWT.Audience,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
		"jti":         uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWT.SecretKey))
}

func (s *Service) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWT.SecretKey), nil
	})

	if err != nil || !token.Valid {
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Invalid token claims")
	}
	return claims, nil
}

func claimsFromMap(claims jwt.MapClaims) (*types.SessionClaims, error) {
	identityID, _ := claims["identity_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	if identityID == "" {
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Invalid token claims")
	}

	return &types.SessionClaims{
		IdentityID: identityID,
		Email:      email,
		Role:       types.IdentityRole(role),
	}, nil
}

// validateRegistration enforces the registration rules: all required
// fields present, a well-formed email, a password of at least 6
// characters, a 10-digit phone, and a 10-digit DNI when provided.
func validateRegistration(req *types.RegistrationRequest) error {
	if req == nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Registration data is required", nil)
	}

	details := map[string]interface{}{}

	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "name is required"
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		details["email"] = "a valid email is required"
	}
	if len(req.Password) < 6 {
		details["password"] = "password must be at least 6 characters"
	}
	if len(req.Phone) != 10 || !digitsOnly.MatchString(req.Phone) {
		details["phone"] = "phone must be exactly 10 digits"
	}
	if strings.TrimSpace(req.City) == "" {
		details["city"] = "city is required"
	}
	if req.DNI != "" && (len(req.DNI) != 10 || !digitsOnly.MatchString(req.DNI)) {
		details["dni"] = "dni must be exactly 10 digits"
	}

	if len(details) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Registration validation failed", details)
	}
	return nil
}

var _ interfaces.SessionService = (*Service)(nil)
