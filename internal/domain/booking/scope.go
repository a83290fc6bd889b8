package booking

import (
	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/domain/account"
)

// Requester is the authenticated identity an operation runs as, as
// supplied by the auth middleware.
type Requester struct {
	ID   uuid.UUID
	Role account.Role
}

// VisibilityScope is the set of bookings a requester may see and act on.
// It is computed once from the requester and applied by a single
// repository query path, so role branching never leaks into queries.
type VisibilityScope struct {
	customerID *uuid.UUID
}

// ScopeFor derives the visibility scope from a requester: admins see
// every booking, customers only their own.
func ScopeFor(r Requester) VisibilityScope {
	if r.Role == account.RoleAdmin {
		return VisibilityScope{}
	}
	id := r.ID
	return VisibilityScope{customerID: &id}
}

// Unrestricted returns true when the scope covers all bookings.
func (s VisibilityScope) Unrestricted() bool {
	return s.customerID == nil
}

// CustomerID returns the customer the scope is bound to. Only meaningful
// when Unrestricted is false.
func (s VisibilityScope) CustomerID() uuid.UUID {
	if s.customerID == nil {
		return uuid.Nil
	}
	return *s.customerID
}
