package types

import "time"

// AppointmentStatus represents appointment status values
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

// IsTerminal reports whether no further transition is defined for the status
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// Appointment represents a scheduled occurrence of a medical imaging
// service at a center. Every appointment belongs to exactly one identity.
type Appointment struct {
	ID          string            `json:"id" db:"id"`
	IdentityID  string            `json:"identity_id" db:"identity_id"`
	ServiceID   string            `json:"service_id" db:"service_id"`
	ServiceName string            `json:"service_name" db:"service_name"`
	CenterID    string            `json:"center_id" db:"center_id"`
	CenterName  string            `json:"center_name" db:"center_name"`
	Date        string            `json:"date" db:"date"`
	Time        string            `json:"time" db:"time"`
	Status      AppointmentStatus `json:"status" db:"status"`
	Price       float64           `json:"price" db:"price"`
	Notes       string            `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// AppointmentRequest represents the data accepted when booking an appointment
type AppointmentRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	CenterID  string `json:"center_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Notes     string `json:"notes,omitempty"`
}

// AppointmentFilters represents filters for appointment queries
type AppointmentFilters struct {
	IdentityID string            `json:"identity_id,omitempty"`
	CenterID   string            `json:"center_id,omitempty"`
	Status     AppointmentStatus `json:"status,omitempty"`
	FromDate   string            `json:"from_date,omitempty"`
	ToDate     string            `json:"to_date,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Offset     int               `json:"offset,omitempty"`
}
