// Package guard decides whether a session may see a page.
package guard

import "github.com/tennis-web/internal/domain"

// Decision is the outcome of checking a requirement
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

// Paths the guard redirects to
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Requirement is a capability a page demands of the current session
type Requirement interface {
	// Decide inspects the current user; nil means no active session
	Decide(user *domain.User) Decision
}

type authenticated struct{}

// Authenticated requires any active session
func Authenticated() Requirement {
	return authenticated{}
}

func (authenticated) Decide(user *domain.User) Decision {
	if user == nil {
		return RedirectLogin
	}
	return Allow
}

type roleIn struct {
	roles []domain.Role
}

// RoleIn requires an active session whose role is one of roles
func RoleIn(roles ...domain.Role) Requirement {
	return roleIn{roles: roles}
}

func (r roleIn) Decide(user *domain.User) Decision {
	if user == nil {
		return RedirectLogin
	}
	for _, role := range r.roles {
		if user.Role == role {
			return Allow
		}
	}
	return RedirectHome
}

// Location returns where a non-Allow decision sends the browser
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	}
	return ""
}
