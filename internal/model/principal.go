package model

import "time"

// Role is a user's coarse permission level
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Principal is the authenticated identity for a single request
type Principal struct {
	ID   string
	Role Role

	// Credential the principal was resolved from
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin returns true for the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanModify reports whether the principal may change a resource owned by ownerID
func (p Principal) CanModify(ownerID string) bool {
	return p.IsAdmin() || (p.ID != "" && p.ID == ownerID)
}

// HasRole reports whether the principal's role is one of roles
func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
