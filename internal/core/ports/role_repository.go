package ports

import (
	"context"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// RoleRepository persists role assignments. Rows are deactivated, never
// deleted.
type RoleRepository interface {
	// FindActive returns the first active assignment for the member, or
	// domain.ErrRoleNotFound when none exists. Store failures come back
	// as distinct errors so callers can fail closed instead of reading
	// "lookup failed" as "no role".
	FindActive(ctx context.Context, memberID string) (*domain.RoleAssignment, error)

	// InsertIfAbsent atomically creates an active assignment with the
	// given role unless the member already has an active one, and
	// returns the assignment that is current after the call. This is
	// the conditional-write primitive the default-role path relies on;
	// two concurrent calls for the same member yield one active row.
	InsertIfAbsent(ctx context.Context, memberID string, role domain.Role) (*domain.RoleAssignment, error)

	Insert(ctx context.Context, ra *domain.RoleAssignment) error

	// DeactivateAll marks every active assignment for the member
	// inactive. Returns the number of rows touched.
	DeactivateAll(ctx context.Context, memberID string) (int64, error)
}

// RoleCache is an optional read-through cache in front of
// RoleRepository.FindActive. It is never authoritative for a grant: a
// cache error falls through to the repository, and role changes
// invalidate the entry.
type RoleCache interface {
	Get(ctx context.Context, memberID string) (domain.Role, bool, error)
	Set(ctx context.Context, memberID string, role domain.Role) error
	Invalidate(ctx context.Context, memberID string) error
}
