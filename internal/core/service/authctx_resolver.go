package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// Identity is what the authentication layer hands over for one request:
// a stable member identifier plus a login email. Only MemberID is
// authoritative for scoping; Email is display-only and never enters an
// ownership comparison.
type Identity struct {
	MemberID string
	Email    string
}

// AuthContextResolver combines an authenticated identity with the role
// directory into the validated AuthContext every access decision runs
// against. One resolve per request; the context is threaded explicitly
// from there, never read from ambient state.
type AuthContextResolver struct {
	roles ports.RoleDirectory
}

func NewAuthContextResolver(roles ports.RoleDirectory) *AuthContextResolver {
	return &AuthContextResolver{roles: roles}
}

// Resolve returns the AuthContext for the identity. A missing member id
// or an unresolvable role yields domain.ErrInvalidAuthContext; a store
// failure propagates as-is so the caller denies without pretending the
// member has no role.
func (r *AuthContextResolver) Resolve(ctx context.Context, id Identity) (domain.AuthContext, error) {
	if id.MemberID == "" {
		return domain.AuthContext{}, domain.ErrInvalidAuthContext
	}

	role, err := r.roles.GetRole(ctx, id.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return domain.AuthContext{}, domain.ErrInvalidAuthContext
		}
		return domain.AuthContext{}, fmt.Errorf("resolve auth context: %w", err)
	}

	ac := domain.AuthContext{MemberID: id.MemberID, Role: role}
	if !ac.Valid() {
		return domain.AuthContext{}, domain.ErrInvalidAuthContext
	}
	return ac, nil
}
