package auth

import "devcamp/internal/model"

// Caller is the identity resolved from a verified session token.
type Caller struct {
	UserID uint
	Role   model.Role
}

// Valid reports whether the caller identity is usable for authorization.
// An ambiguous identity always fails closed.
func (c Caller) Valid() bool {
	return c.UserID != 0 && c.Role.Valid()
}

// CanMutate reports whether the caller may mutate a resource owned by
// ownerUserID: admins may always, everyone else only their own resources.
func (c Caller) CanMutate(ownerUserID uint) bool {
	if !c.Valid() {
		return false
	}
	return c.Role == model.RoleAdmin || c.UserID == ownerUserID
}

// HasRole reports whether the caller holds one of the allowed roles.
func (c Caller) HasRole(allowed ...model.Role) bool {
	if !c.Valid() {
		return false
	}
	for _, role := range allowed {
		if c.Role == role {
			return true
		}
	}
	return false
}
