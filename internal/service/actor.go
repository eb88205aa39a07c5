package service

import "hospital-booking-backend/internal/models"

// Actor is the authenticated caller. A nil *Actor means an anonymous request.
type Actor struct {
	UserID uint
	Role   string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// HasRole reports whether the actor holds one of roles
func (a *Actor) HasRole(roles ...string) bool {
	if a == nil {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// userID returns 0 for anonymous callers
func (a *Actor) userID() uint {
	if a == nil {
		return 0
	}
	return a.UserID
}
