package identity

import (
	"errors"
	"time"

	"github.com/listinghub/listinghub/internal/trust"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user exists")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPremiumInPast rejects premium grants that would already be expired.
	ErrPremiumInPast = errors.New("premium end must be in the future")
)

// Role controls access to admin endpoints.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Verification holds the per-channel verification flags and the aggregate.
type Verification struct {
	Email            bool `json:"email"`
	Phone            bool `json:"phone"`
	IdentityDocument bool `json:"identity_document"`
	AddressProof     bool `json:"address_proof"`
	Verified         bool `json:"verified"`
}

// WithAggregate recomputes Verified: a user is fully verified once email,
// phone and an identity document are confirmed. Address proof is optional.
func (v Verification) WithAggregate() Verification {
	v.Verified = v.Email && v.Phone && v.IdentityDocument
	return v
}

// User represents a registered marketplace account.
type User struct {
	ID           string
	Email        string
	Phone        string
	DisplayName  string
	Type         trust.UserType
	Role         Role
	PasswordHash []byte
	Verification Verification
	PremiumUntil *time.Time
	TokenVersion int
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// RegisterInput is the data accepted at sign-up.
type RegisterInput struct {
	Email       string
	Phone       string
	Password    string
	DisplayName string
	UserType    string
}

// Credentials request structure.
type Credentials struct {
	Email    string
	Password string
}
