package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Handler handles HTTP requests for the clinic catalog
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes registers the catalog routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/catalog/services", h.ListServices).Methods("GET")
	router.HandleFunc("/catalog/services/{id}", h.GetService).Methods("GET")
	router.HandleFunc("/catalog/centers", h.ListCenters).Methods("GET")
	router.HandleFunc("/catalog/centers/{id}", h.GetCenter).Methods("GET")
	router.HandleFunc("/catalog/categories", h.ListCategories).Methods("GET")
	router.HandleFunc("/catalog/time-slots", h.ListTimeSlots).Methods("GET")
}

// ListServices handles GET /catalog/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	writeJSON(w, http.StatusOK, h.service.Services(category))
}

// GetService handles GET /catalog/services/{id}
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service.GetService(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// ListCenters handles GET /catalog/centers
func (h *Handler) ListCenters(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	writeJSON(w, http.StatusOK, h.service.Centers(city))
}

// GetCenter handles GET /catalog/centers/{id}
func (h *Handler) GetCenter(w http.ResponseWriter, r *http.Request) {
	center, err := h.service.GetCenter(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, center)
}

// ListCategories handles GET /catalog/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Categories())
}

// ListTimeSlots handles GET /catalog/time-slots
func (h *Handler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.TimeSlots())
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
	if appErr.Type == types.ErrorTypeNotFound {
		statusCode = http.StatusNotFound
	}

	writeJSON(w, statusCode, map[string]interface{}{"error": appErr})
}
