package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles known to the tennis backend.
// The zero value is not a valid role.
type Role int

const (
	RolePlayer Role = iota + 1
	RoleReferee
	RoleAdmin
)

// Roles lists every valid role in display order
func Roles() []Role {
	return []Role{RolePlayer, RoleReferee, RoleAdmin}
}

// ParseRole converts a wire or form value into a Role
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PLAYER":
		return RolePlayer, nil
	case "REFEREE":
		return RoleReferee, nil
	case "ADMIN":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// String returns the wire name of the role
func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "PLAYER"
	case RoleReferee:
		return "REFEREE"
	case RoleAdmin:
		return "ADMIN"
	}
	return ""
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r.String() != ""
}

// HomePath returns the dashboard path a user with this role lands on after login
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleReferee:
		return "/referee"
	case RolePlayer:
		return "/player"
	}
	return "/"
}

// Label is the human readable role name
func (r Role) Label() string {
	switch r {
	case RolePlayer:
		return "Player"
	case RoleReferee:
		return "Referee"
	case RoleAdmin:
		return "Admin"
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value leaves
// the zero role.
func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = 0
		return nil
	}
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
