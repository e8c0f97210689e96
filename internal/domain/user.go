package domain

import "strings"

// Role is the closed set of permission levels.
type Role string

const (
	// RoleMember is the default role for every new principal.
	RoleMember Role = "MEMBER"
	// RoleAdmin grants back-office access.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// User is the local record for an external identity.
type User struct {
	Entity
	ExternalID  string `json:"external_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Role        Role   `json:"role"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Principal is the identity asserted by the identity provider for a request.
type Principal struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	AvatarURL  string
}

// ProfileName derives a display name from the principal's name parts:
// "first last" when both are present, otherwise first. It returns ""
// when the provider sent no first name.
func (p *Principal) ProfileName() string {
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	default:
		return first
	}
}

// DisplayName is the name used for a newly provisioned user, falling back to email.
func (p *Principal) DisplayName() string {
	if name := p.ProfileName(); name != "" {
		return name
	}
	return p.Email
}
