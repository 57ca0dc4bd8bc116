package domain

// Role is the platform-wide role carried by the identity provider,
// independent of any per-room membership role.
type Role string

const (
	RoleStudent Role = "student"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
)

// Actor is whoever is attempting an action, as resolved by the
// external identity provider at request time.
type Actor struct {
	UserID        string `json:"userId"`
	Name          string `json:"name,omitempty"`
	Role          Role   `json:"role"`
	IsSystemOwner bool   `json:"isSystemOwner"`
}

// Privileged reports whether the actor holds platform-wide moderation
// rights regardless of room membership.
func (a Actor) Privileged() bool {
	if a.IsSystemOwner {
		return true
	}
	return a.Role == RoleDoctor || a.Role == RoleAdmin
}
