package interfaces

import (
	"context"

	"github.com/centroimagen/booking-api/pkg/types"
)

// BookingService defines appointment lifecycle management
type BookingService interface {
	CreateAppointment(ctx context.Context, identityID string, req *types.AppointmentRequest) (*types.Appointment, error)
	GetAppointment(ctx context.Context, aptID, identityID string) (*types.Appointment, error)
	GetAppointments(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error)
	GetIdentityAppointments(ctx context.Context, identityID string) ([]*types.Appointment, error)

	// Lifecycle transitions. Cancel is user-initiated; the rest are
	// administrative. Every transition is a single accept/reject decision.
	CancelAppointment(ctx context.Context, aptID, identityID string) error
	ConfirmAppointment(ctx context.Context, aptID string) error
	StartAppointment(ctx context.Context, aptID string) error
	CompleteAppointment(ctx context.Context, aptID string) (*types.Result, error)
	MarkNoShow(ctx context.Context, aptID string) error

	// SendReminder notifies the owner of an upcoming appointment.
	SendReminder(ctx context.Context, aptID string) error
}

// AppointmentRepository defines appointment persistence
type AppointmentRepository interface {
	Create(ctx context.Context, apt *types.Appointment) error
	GetByID(ctx context.Context, id string) (*types.Appointment, error)
	List(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to types.AppointmentStatus) error

	// CompleteWithResult atomically sets the appointment to completed and
	// creates its result row in processing, in one transaction.
	CompleteWithResult(ctx context.Context, aptID string, result *types.Result) error
}

// ResultService defines result lifecycle management
type ResultService interface {
	GetResult(ctx context.Context, resultID, identityID string) (*types.Result, error)
	GetIdentityResults(ctx context.Context, identityID string) ([]*types.Result, error)
	GetResults(ctx context.Context, filters *types.ResultFilters) ([]*types.Result, error)
	MarkReady(ctx context.Context, resultID string) error
	Upload(ctx context.Context, resultID string, upload *types.ResultUpload) (*types.Result, error)
}

// ResultRepository defines result persistence
type ResultRepository interface {
	GetByID(ctx context.Context, id string) (*types.Result, error)
	GetByAppointmentID(ctx context.Context, aptID string) (*types.Result, error)
	List(ctx context.Context, filters *types.ResultFilters) ([]*types.Result, error)
	UpdateStatus(ctx context.Context, id string, from, to types.ResultStatus) error

	// CompleteUpload conditionally moves ready to completed, storing the
	// clinical fields and attachments. It must report a conflict when the
	// result is not in ready, so a duplicate upload is rejected rather
	// than applied twice.
	CompleteUpload(ctx context.Context, id string, upload *types.ResultUpload) error
}
