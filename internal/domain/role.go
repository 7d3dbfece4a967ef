package domain

import (
	"fmt"
	"strings"
)

// Role is the coarse authorization level carried in token claims.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// satisfiedBy maps a required role to the roles allowed through. This
// is deliberately a rule table rather than a numeric ordering: admin
// satisfies every requirement, but editor and viewer are otherwise
// unrelated: an editor token does NOT pass a viewer-required check.
var satisfiedBy = map[Role]map[Role]bool{
	RoleViewer: {RoleViewer: true, RoleAdmin: true},
	RoleEditor: {RoleEditor: true, RoleAdmin: true},
	RoleAdmin:  {RoleAdmin: true},
}

// Satisfies reports whether a token carrying role r passes a check
// requiring the given role.
func (r Role) Satisfies(required Role) bool {
	return satisfiedBy[required][r]
}

// ParseRole validates a role string from external input.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleViewer:
		return RoleViewer, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}
