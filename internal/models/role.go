package models

import "strings"

// Role is the closed set of user roles. RoleUnknown covers empty or unrecognised
// values read from storage or tokens.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleHRManager
	RoleInterviewer
)

// ParseRole converts the stored representation ("ADMIN", "HR_MANAGER", "INTERVIEWER")
// into a Role. Anything else yields RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "HR_MANAGER":
		return RoleHRManager
	case "INTERVIEWER":
		return RoleInterviewer
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleHRManager:
		return "HR_MANAGER"
	case RoleInterviewer:
		return "INTERVIEWER"
	default:
		return ""
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHRManager, RoleInterviewer:
		return true
	default:
		return false
	}
}

// MarshalText encodes the role using its stored representation.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a stored role. Unrecognised values decode to RoleUnknown.
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}
