package account

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/domain"
)

// Role determines what a requester may see and do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// ParseRole converts a string to a Role, returning an error if invalid.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid role: %s", s))
	}
	return r, nil
}

// Account is the aggregate root for a user of the rental platform.
// Emails are stored and compared in lower case.
type Account struct {
	id           uuid.UUID
	name         string
	email        string
	passwordHash string
	phone        string
	role         Role
}

// NewAccount creates a new Account with validated fields. The password
// hash must already be computed; raw credentials never enter the domain.
func NewAccount(name, email, passwordHash, phone string, role Role) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, domain.NewValidationError("phone is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid role: %s", role))
	}

	return &Account{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		phone:        phone,
		role:         role,
	}, nil
}

// Reconstruct rebuilds an Account from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email, passwordHash, phone string, role Role) *Account {
	return &Account{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		phone:        phone,
		role:         role,
	}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// --- Getters ---

func (a *Account) ID() uuid.UUID        { return a.id }
func (a *Account) Name() string         { return a.name }
func (a *Account) Email() string        { return a.email }
func (a *Account) PasswordHash() string { return a.passwordHash }
func (a *Account) Phone() string        { return a.phone }
func (a *Account) Role() Role           { return a.role }

// IsAdmin returns true for administrator accounts.
func (a *Account) IsAdmin() bool { return a.role == RoleAdmin }

// --- Behavior ---

// Replace applies a full update of name, email, phone and role.
// The credential hash is untouched; password changes go through SignUp-style
// hashing, not profile updates.
func (a *Account) Replace(name, email, phone string, role Role) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewValidationError("name is required")
	}
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.NewValidationError("a valid email is required")
	}
	if strings.TrimSpace(phone) == "" {
		return domain.NewValidationError("phone is required")
	}
	if !role.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid role: %s", role))
	}

	a.name = name
	a.email = email
	a.phone = phone
	a.role = role
	return nil
}
