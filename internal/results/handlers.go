package results

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/centroimagen/booking-api/internal/session"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Handler handles HTTP requests for results
type Handler struct {
	service interfaces.ResultService
	logger  *logger.Logger
}

// NewHandler creates a new results handler
func NewHandler(service interfaces.ResultService, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes registers the patient-facing result routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/results", h.ListOwn).Methods("GET")
	router.HandleFunc("/results/{id}", h.Get).Methods("GET")
}

// RegisterAdminRoutes registers the administrative result routes
func (h *Handler) RegisterAdminRoutes(router *mux.Router) {
	router.HandleFunc("/results", h.ListAll).Methods("GET")
	router.HandleFunc("/results/{id}/ready", h.MarkReady).Methods("POST")
	router.HandleFunc("/results/{id}/upload", h.Upload).Methods("POST")
}

// ListOwn handles GET /results for the authenticated identity
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	results, err := h.service.GetIdentityResults(r.Context(), claims.IdentityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Get handles GET /results/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	identityID := claims.IdentityID
	if claims.Role == types.RoleAdmin {
		identityID = ""
	}

	result, err := h.service.GetResult(r.Context(), mux.Vars(r)["id"], identityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListAll handles GET /admin/results with query filters
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &types.ResultFilters{
		IdentityID:    q.Get("identity_id"),
		AppointmentID: q.Get("appointment_id"),
		Status:        types.ResultStatus(q.Get("status")),
	}

	results, err := h.service.GetResults(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// MarkReady handles POST /admin/results/{id}/ready
func (h *Handler) MarkReady(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkReady(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": types.ResultReady})
}

// Upload handles POST /admin/results/{id}/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var upload types.ResultUpload
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		writeError(w, types.NewValidationError(types.ErrCodeInvalidInput, "Invalid request body", nil))
		return
	}

	result, err := h.service.Upload(r.Context(), mux.Vars(r)["id"], &upload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
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

	writeJSON(w, statusCode, map[string]interface{}{"error": appErr})
}
