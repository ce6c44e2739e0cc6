// internal/models/user.go
package models

import "time"

// Role is the coarse permission tier resolved from backend state.
type Role string

const (
	RoleStudent   Role = "student"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a backend role string to a Role. Anything unrecognized
// fails closed to student: an unknown value must never grant elevated
// access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleModerator:
		return RoleModerator
	case RoleAdmin:
		return RoleAdmin
	}
	return RoleStudent
}

// AtLeastModerator reports whether the role clears the moderator gate.
func (r Role) AtLeastModerator() bool {
	return r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
