package booking

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/centroimagen/booking-api/internal/session"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service interfaces.BookingService
	logger  *logger.Logger
}

// NewHandler creates a new booking handler
func NewHandler(service interfaces.BookingService, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes registers the patient-facing appointment routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments", h.Create).Methods("POST")
	router.HandleFunc("/appointments", h.ListOwn).Methods("GET")
	router.HandleFunc("/appointments/{id}", h.Get).Methods("GET")
	router.HandleFunc("/appointments/{id}/cancel", h.Cancel).Methods("POST")
}

// RegisterAdminRoutes registers the administrative appointment routes
func (h *Handler) RegisterAdminRoutes(router *mux.Router) {
	router.HandleFunc("/appointments", h.ListAll).Methods("GET")
	router.HandleFunc("/appointments/{id}/confirm", h.Confirm).Methods("POST")
	router.HandleFunc("/appointments/{id}/start", h.Start).Methods("POST")
	router.HandleFunc("/appointments/{id}/complete", h.Complete).Methods("POST")
	router.HandleFunc("/appointments/{id}/no-show", h.NoShow).Methods("POST")
	router.HandleFunc("/appointments/{id}/remind", h.Remind).Methods("POST")
}

// Create handles POST /appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	var req types.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, types.NewValidationError(types.ErrCodeInvalidInput, "Invalid request body", nil))
		return
	}

	apt, err := h.service.CreateAppointment(r.Context(), claims.IdentityID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apt)
}

// ListOwn handles GET /appointments for the authenticated identity
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	appointments, err := h.service.GetIdentityAppointments(r.Context(), claims.IdentityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// Get handles GET /appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	// Admins see any appointment; patients only their own
	identityID := claims.IdentityID
	if claims.Role == types.RoleAdmin {
		identityID = ""
	}

	apt, err := h.service.GetAppointment(r.Context(), mux.Vars(r)["id"], identityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apt)
}

// Cancel handles POST /appointments/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	identityID := claims.IdentityID
	if claims.Role == types.RoleAdmin {
		identityID = ""
	}

	if err := h.service.CancelAppointment(r.Context(), mux.Vars(r)["id"], identityID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": types.AppointmentCancelled})
}

// ListAll handles GET /admin/appointments with query filters
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &types.AppointmentFilters{
		IdentityID: q.Get("identity_id"),
		CenterID:   q.Get("center_id"),
		Status:     types.AppointmentStatus(q.Get("status")),
		FromDate:   q.Get("from_date"),
		ToDate:     q.Get("to_date"),
	}

	appointments, err := h.service.GetAppointments(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// Confirm handles POST /admin/appointments/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ConfirmAppointment, types.AppointmentConfirmed)
}

// Start handles POST /admin/appointments/{id}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.StartAppointment, types.AppointmentInProgress)
}

// NoShow handles POST /admin/appointments/{id}/no-show
func (h *Handler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkNoShow, types.AppointmentNoShow)
}

// Remind handles POST /admin/appointments/{id}/remind
func (h *Handler) Remind(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SendReminder(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reminded": true})
}

// Complete handles POST /admin/appointments/{id}/complete and returns the
// result created alongside the completion.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CompleteAppointment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": types.AppointmentCompleted,
		"result": result,
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, aptID string) error, to types.AppointmentStatus) {
	if err := fn(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": to})
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
