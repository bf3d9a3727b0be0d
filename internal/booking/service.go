package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/centroimagen/booking-api/internal/catalog"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/monitoring"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Notifier receives appointment lifecycle events. Delivery failures are
// the notifier's problem; the booking flow never waits on them.
type Notifier interface {
	AppointmentBooked(identity *types.Identity, apt *types.Appointment, preparation string)
	AppointmentCancelled(identity *types.Identity, apt *types.Appointment, reason string)
	AppointmentReminder(identity *types.Identity, apt *types.Appointment, preparation string)
}

// Service implements the appointment lifecycle
type Service struct {
	logger     *logger.Logger
	metrics    *monitoring.MetricsCollector
	repository interfaces.AppointmentRepository
	identities interfaces.IdentityRepository
	catalog    *catalog.Service
	notifier   Notifier
}

// NewService creates a new booking service
func NewService(log *logger.Logger, metrics *monitoring.MetricsCollector, repo interfaces.AppointmentRepository, identities interfaces.IdentityRepository, cat *catalog.Service, notifier Notifier) *Service {
	return &Service{
		logger:     log,
		metrics:    metrics,
		repository: repo,
		identities: identities,
		catalog:    cat,
		notifier:   notifier,
	}
}

// CreateAppointment books a new appointment for the identity. The service
// and center are validated against the catalog, the time against the
// bookable slots; names and price are denormalized from the catalog so the
// appointment reads standalone.
func (s *Service) CreateAppointment(ctx context.Context, identityID string, req *types.AppointmentRequest) (*types.Appointment, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	svc, err := s.catalog.GetService(req.ServiceID)
	if err != nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Unknown medical service", map[string]interface{}{
			"service_id": req.ServiceID,
		})
	}

	center, err := s.catalog.GetCenter(req.CenterID)
	if err != nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Unknown medical center", map[string]interface{}{
			"center_id": req.CenterID,
		})
	}

	apt := &types.Appointment{
		ID:          uuid.New().String(),
		IdentityID:  identityID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		CenterID:    center.ID,
		CenterName:  center.Name,
		Date:        req.Date,
		Time:        req.Time,
		Status:      types.AppointmentScheduled,
		Price:       svc.Price,
		Notes:       strings.TrimSpace(req.Notes),
	}

	if err := s.repository.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.recordTransition("", types.AppointmentScheduled, true)
	s.logger.WithIdentityID(identityID).WithFields(map[string]interface{}{
		"appointment_id": apt.ID,
		"service":        apt.ServiceName,
		"date":           apt.Date,
		"time":           apt.Time,
	}).Info("Appointment created")

	s.notifyBooked(ctx, apt, svc.Preparation)
	return apt, nil
}

// GetAppointment returns one appointment. When identityID is non-empty the
// appointment must belong to that identity.
func (s *Service) GetAppointment(ctx context.Context, aptID, identityID string) (*types.Appointment, error) {
	apt, err := s.repository.GetByID(ctx, aptID)
	if err != nil {
		return nil, err
	}
	if identityID != "" && apt.IdentityID != identityID {
		return nil, types.NewNotFoundError("APPOINTMENT_NOT_FOUND", "Appointment not found")
	}
	return apt, nil
}

// GetAppointments lists appointments matching the filters (admin surface)
func (s *Service) GetAppointments(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	if filters == nil {
		filters = &types.AppointmentFilters{}
	}
	filters.Status = NormalizeStatus(filters.Status)
	return s.repository.List(ctx, filters)
}

// GetIdentityAppointments lists the appointments owned by the identity
func (s *Service) GetIdentityAppointments(ctx context.Context, identityID string) ([]*types.Appointment, error) {
	return s.repository.List(ctx, &types.AppointmentFilters{IdentityID: identityID})
}

// CancelAppointment is the user-initiated transition to cancelled
func (s *Service) CancelAppointment(ctx context.Context, aptID, identityID string) error {
	apt, err := s.GetAppointment(ctx, aptID, identityID)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, apt, types.AppointmentCancelled); err != nil {
		return err
	}

	s.notifyCancelled(ctx, apt)
	return nil
}

// ConfirmAppointment moves a scheduled appointment to confirmed
func (s *Service) ConfirmAppointment(ctx context.Context, aptID string) error {
	return s.adminTransition(ctx, aptID, types.AppointmentConfirmed)
}

// StartAppointment moves a confirmed appointment to in_progress
func (s *Service) StartAppointment(ctx context.Context, aptID string) error {
	return s.adminTransition(ctx, aptID, types.AppointmentInProgress)
}

// MarkNoShow marks an appointment the patient did not attend
func (s *Service) MarkNoShow(ctx context.Context, aptID string) error {
	return s.adminTransition(ctx, aptID, types.AppointmentNoShow)
}

// SendReminder sends a reminder notification for an upcoming appointment.
// Only appointments still waiting to happen can be reminded about.
func (s *Service) SendReminder(ctx context.Context, aptID string) error {
	apt, err := s.repository.GetByID(ctx, aptID)
	if err != nil {
		return err
	}

	status := NormalizeStatus(apt.Status)
	if status != types.AppointmentScheduled && status != types.AppointmentConfirmed {
		return types.NewConflictError(types.ErrCodeConflict,
			fmt.Sprintf("cannot send a reminder for a %s appointment", status))
	}

	if s.notifier == nil {
		return nil
	}
	identity, err := s.identities.GetByID(ctx, apt.IdentityID)
	if err != nil {
		s.logger.WithError(err).Warn("Skipping reminder, identity lookup failed")
		return nil
	}

	preparation := ""
	if svc, err := s.catalog.GetService(apt.ServiceID); err == nil {
		preparation = svc.Preparation
	}
	s.notifier.AppointmentReminder(identity, apt, preparation)

	s.logger.WithIdentityID(apt.IdentityID).WithField("appointment_id", apt.ID).Info("Appointment reminder sent")
	return nil
}

// CompleteAppointment atomically completes the appointment and creates its
// result in processing. Both writes happen in one repository transaction;
// an appointment can never be completed without a result record.
func (s *Service) CompleteAppointment(ctx context.Context, aptID string) (*types.Result, error) {
	apt, err := s.repository.GetByID(ctx, aptID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(apt.Status, types.AppointmentCompleted); err != nil {
		s.recordTransition(apt.Status, types.AppointmentCompleted, false)
		return nil, err
	}

	result := &types.Result{
		ID:            uuid.New().String(),
		AppointmentID: apt.ID,
		IdentityID:    apt.IdentityID,
		ServiceName:   apt.ServiceName,
		Date:          apt.Date,
		Status:        types.ResultProcessing,
	}

	if err := s.repository.CompleteWithResult(ctx, apt.ID, result); err != nil {
		s.recordTransition(apt.Status, types.AppointmentCompleted, false)
		return nil, err
	}

	s.recordTransition(apt.Status, types.AppointmentCompleted, true)
	s.logger.WithFields(map[string]interface{}{
		"appointment_id": apt.ID,
		"result_id":      result.ID,
	}).Info("Appointment completed, result created")

	return result, nil
}

func (s *Service) adminTransition(ctx context.Context, aptID string, to types.AppointmentStatus) error {
	apt, err := s.repository.GetByID(ctx, aptID)
	if err != nil {
		return err
	}
	return s.transition(ctx, apt, to)
}

// transition validates the edge and applies it with a conditional update,
// so a concurrent status change loses cleanly instead of overwriting.
func (s *Service) transition(ctx context.Context, apt *types.Appointment, to types.AppointmentStatus) error {
	from := NormalizeStatus(apt.Status)

	if err := ValidateTransition(from, to); err != nil {
		s.recordTransition(from, to, false)
		return err
	}

	if err := s.repository.UpdateStatus(ctx, apt.ID, from, to); err != nil {
		s.recordTransition(from, to, false)
		return err
	}

	s.recordTransition(from, to, true)
	s.logger.WithFields(map[string]interface{}{
		"appointment_id": apt.ID,
		"from":           from,
		"to":             to,
	}).Info("Appointment status changed")

	apt.Status = to
	return nil
}

func (s *Service) validateRequest(req *types.AppointmentRequest) error {
	if req == nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Appointment data is required", nil)
	}

	details := map[string]interface{}{}

	if req.ServiceID == "" {
		details["service_id"] = "service is required"
	}
	if req.CenterID == "" {
		details["center_id"] = "center is required"
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		details["date"] = "date must be YYYY-MM-DD"
	}
	if !s.catalog.IsBookableSlot(req.Time) {
		details["time"] = "time is not a bookable slot"
	}

	if len(details) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Appointment validation failed", details)
	}
	return nil
}

func (s *Service) notifyBooked(ctx context.Context, apt *types.Appointment, preparation string) {
	if s.notifier == nil {
		return
	}
	identity, err := s.identities.GetByID(ctx, apt.IdentityID)
	if err != nil {
		s.logger.WithError(err).Warn("Skipping booking notification, identity lookup failed")
		return
	}
	s.notifier.AppointmentBooked(identity, apt, preparation)
}

func (s *Service) notifyCancelled(ctx context.Context, apt *types.Appointment) {
	if s.notifier == nil {
		return
	}
	identity, err := s.identities.GetByID(ctx, apt.IdentityID)
	if err != nil {
		s.logger.WithError(err).Warn("Skipping cancellation notification, identity lookup failed")
		return
	}
	s.notifier.AppointmentCancelled(identity, apt, "")
}

func (s *Service) recordTransition(from, to types.AppointmentStatus, accepted bool) {
	if s.metrics != nil {
		s.metrics.RecordLifecycleTransition("appointment", string(from), string(to), accepted)
	}
}

var _ interfaces.BookingService = (*Service)(nil)
