package session

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Handler handles HTTP requests for session operations
type Handler struct {
	service interfaces.SessionService
	logger  *logger.Logger
}

// NewHandler creates a new session handler
func NewHandler(service interfaces.SessionService, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes registers the public session routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/auth/refresh", h.Refresh).Methods("POST")
}

// RegisterAuthedRoutes registers the session routes that act on or expose
// the current identity, so they require a valid token.
func (h *Handler) RegisterAuthedRoutes(router *mux.Router) {
	router.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	router.HandleFunc("/auth/session", h.Session).Methods("GET")
}

// RegisterAdminRoutes registers the administrative identity routes
func (h *Handler) RegisterAdminRoutes(router *mux.Router) {
	router.HandleFunc("/identities", h.ListIdentities).Methods("GET")
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "Invalid request body", nil))
		return
	}

	identity, token, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"identity": identity,
		"token":    token,
	})
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "Invalid request body", nil))
		return
	}

	identity, token, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"identity": identity,
		"token":    token,
	})
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out",
	})
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "refresh_token is required", nil))
		return
	}

	token, err := h.service.RefreshToken(body.RefreshToken)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, token)
}

// Session handles GET /auth/session, returning the current identity or
// an explicit logged-out marker.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	identity := h.service.Current()
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"identity":  identity,
		"logged_in": identity != nil,
	})
}

// ListIdentities handles GET /admin/identities with query filters
func (h *Handler) ListIdentities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &types.IdentityFilters{
		Search: q.Get("search"),
		Role:   types.IdentityRole(q.Get("role")),
		City:   q.Get("city"),
	}

	identities, err := h.service.ListIdentities(r.Context(), filters)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, identities)
}

// writeJSONResponse writes a JSON response
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse maps an error to an HTTP status and JSON body
func writeErrorResponse(w http.ResponseWriter, err error) {
	appErr, ok := err.(*types.AppError)
	if !ok {
		appErr = types.NewInternalError(types.ErrCodeInternalError, "Internal server error", err)
	}

	statusCode := http.StatusInternalServerError
	switch appErr.Type {
	case types.ErrorTypeValidation:
		statusCode = http.StatusBadRequest
	case types.ErrorTypeAuthentication:
		statusCode = http.StatusUnauthorized
	case types.ErrorTypeAuthorization:
		statusCode = http.StatusForbidden
	case types.ErrorTypeNotFound:
		statusCode = http.StatusNotFound
	case types.ErrorTypeConflict:
		statusCode = http.StatusConflict
	case types.ErrorTypeTimeout:
		statusCode = http.StatusGatewayTimeout
	}

	writeJSONResponse(w, statusCode, map[string]interface{}{
		"error": appErr,
	})
}
