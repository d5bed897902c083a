package domain

import "errors"

var ErrInvalidAuthContext = errors.New("invalid auth context")
var ErrUnauthorized = errors.New("unauthorized")
var ErrRecordNotFound = errors.New("record not found")
var ErrNotProtectedCollection = errors.New("collection is not protected")
var ErrOwnershipImmutable = errors.New("ownership fields cannot be changed")

// AuthContext is the request-scoped {member, role} pair every access
// decision is made against. It is built fresh per operation from the
// authenticated identity and the role directory, never persisted, and
// never read from ambient state.
//
// The member identifier is the only field used in ownership comparisons.
// Login email is display-only and must never be substituted for it.
type AuthContext struct {
	MemberID string `json:"memberId"`
	Role     Role   `json:"role"`
}

// Valid reports whether the context is usable for an access decision:
// a non-empty member id and one of the three known roles. Pure and
// synchronous, checked at every gateway entry point.
func (ac AuthContext) Valid() bool {
	return ac.MemberID != "" && ac.Role.Known()
}

// IsAdmin reports whether the context carries the admin role.
func (ac AuthContext) IsAdmin() bool {
	return ac.Role == RoleAdmin
}

// SystemContext returns the context internal writers (notification
// fan-out, migrations) use. It passes the gateway as admin but is tagged
// with a reserved member id so writes remain attributable in logs.
func SystemContext() AuthContext {
	return AuthContext{MemberID: "system", Role: RoleAdmin}
}
