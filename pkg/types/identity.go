package types

import "time"

// IdentityRole represents the role of an authenticated identity
type IdentityRole string

const (
	RoleUser  IdentityRole = "user"
	RoleAdmin IdentityRole = "admin"
)

// Identity represents an authenticated user record, either a clinic
// administrator or a patient. The password is never part of this struct;
// it lives hashed inside the identity repository and is stripped before
// anything is persisted or returned.
type Identity struct {
	ID        string       `json:"id" db:"id"`
	Email     string       `json:"email" db:"email"`
	Name      string       `json:"name" db:"name"`
	Role      IdentityRole `json:"role" db:"role"`
	Phone     string       `json:"phone" db:"phone"`
	City      string       `json:"city" db:"city"`
	DNI       string       `json:"dni,omitempty" db:"dni"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// IdentityFilters narrows an administrative identity listing. Search
// matches name and email, case-insensitively.
type IdentityFilters struct {
	Search string       `json:"search,omitempty"`
	Role   IdentityRole `json:"role,omitempty"`
	City   string       `json:"city,omitempty"`
}

// Credentials represents login credentials
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegistrationRequest represents the data accepted by registration.
// Role is not accepted from the caller; it is always forced to "user".
type RegistrationRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,len=10"`
	City     string `json:"city" validate:"required"`
	DNI      string `json:"dni,omitempty" validate:"omitempty,len=10"`
}

// AuthToken represents the token pair issued on login and registration
type AuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// SessionClaims represents the JWT claims carried by a session token
type SessionClaims struct {
	IdentityID string       `json:"identity_id"`
	Email      string       `json:"email"`
	Role       IdentityRole `json:"role"`
}
