package types

import "time"

// ResultStatus represents result status values
type ResultStatus string

const (
	ResultProcessing ResultStatus = "processing"
	ResultReady      ResultStatus = "ready"
	ResultCompleted  ResultStatus = "completed"
)

// AttachmentKind distinguishes image artifacts from document artifacts
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentDocument AttachmentKind = "document"
)

// Attachment represents an artifact attached to a result during upload
type Attachment struct {
	ID        string         `json:"id" db:"id"`
	ResultID  string         `json:"result_id" db:"result_id"`
	Kind      AttachmentKind `json:"kind" db:"kind"`
	FileName  string         `json:"file_name" db:"file_name"`
	URI       string         `json:"uri" db:"uri"`
	MimeType  string         `json:"mime_type,omitempty" db:"mime_type"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// Result represents the clinical output tied to a completed appointment.
// It is created in "processing" in the same transaction that completes the
// appointment, and references that appointment for its entire lifetime.
type Result struct {
	ID              string       `json:"id" db:"id"`
	AppointmentID   string       `json:"appointment_id" db:"appointment_id"`
	IdentityID      string       `json:"identity_id" db:"identity_id"`
	ServiceName     string       `json:"service_name" db:"service_name"`
	Date            string       `json:"date" db:"date"`
	Doctor          string       `json:"doctor,omitempty" db:"doctor"`
	Status          ResultStatus `json:"status" db:"status"`
	Diagnosis       string       `json:"diagnosis,omitempty" db:"diagnosis"`
	Recommendations string       `json:"recommendations,omitempty" db:"recommendations"`
	Images          []Attachment `json:"images"`
	Documents       []Attachment `json:"documents"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// ResultUpload represents the administrative upload that moves a result
// from ready to completed. Doctor and diagnosis are mandatory.
type ResultUpload struct {
	Doctor          string       `json:"doctor" validate:"required"`
	Diagnosis       string       `json:"diagnosis" validate:"required"`
	Recommendations string       `json:"recommendations,omitempty"`
	Images          []Attachment `json:"images,omitempty"`
	Documents       []Attachment `json:"documents,omitempty"`
}

// ResultFilters represents filters for result queries
type ResultFilters struct {
	IdentityID    string       `json:"identity_id,omitempty"`
	AppointmentID string       `json:"appointment_id,omitempty"`
	Status        ResultStatus `json:"status,omitempty"`
	Limit         int          `json:"limit,omitempty"`
	Offset        int          `json:"offset,omitempty"`
}
