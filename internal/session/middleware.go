package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

// ClaimsFromContext returns the session claims attached by the auth
// middleware, nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *types.SessionClaims {
	claims, _ := ctx.Value(claimsContextKey).(*types.SessionClaims)
	return claims
}

// Middleware validates Bearer tokens and attaches claims to the request
type Middleware struct {
	sessions interfaces.SessionService
	logger   *logger.Logger
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(sessions interfaces.SessionService, log *logger.Logger) *Middleware {
	return &Middleware{sessions: sessions, logger: log}
}

// Authenticate rejects requests without a valid Bearer access token
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeErrorResponse(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authorization token required"))
			return
		}

		claims, err := m.sessions.ValidateToken(token)
		if err != nil {
			m.logger.WithField("path", r.URL.Path).Warn("Token validation failed")
			writeErrorResponse(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated requests whose identity lacks the role
func (m *Middleware) RequireRole(role types.IdentityRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeErrorResponse(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
				return
			}
			if claims.Role != role {
				m.logger.WithIdentityID(claims.IdentityID).WithField("required_role", role).Warn("Role check failed")
				writeErrorResponse(w, types.NewAuthorizationError(types.ErrCodeForbidden, "Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
