package ports

import (
	"context"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// RoleDirectory resolves members to roles. The distinction between "no
// role" (domain.ErrRoleNotFound) and "lookup failed" (anything else) is
// part of the contract: callers must deny on either, but only the
// former may trigger the default-role path.
type RoleDirectory interface {
	GetRole(ctx context.Context, memberID string) (domain.Role, error)

	// EnsureDefaultRole idempotently creates an active "client"
	// assignment when the member has none, and returns the role that is
	// active after the call. Safe under concurrent invocation.
	EnsureDefaultRole(ctx context.Context, memberID string) (domain.Role, error)

	// SetRole replaces the member's active role. The caller is expected
	// to have verified admin privilege already; this is the privileged
	// mutation, not the policy check.
	SetRole(ctx context.Context, memberID string, role domain.Role) error

	IsClient(ctx context.Context, memberID string) (bool, error)
	IsTrainer(ctx context.Context, memberID string) (bool, error)
	IsAdmin(ctx context.Context, memberID string) (bool, error)
}

// RelationshipDirectory resolves and mutates trainer-client assignments.
type RelationshipDirectory interface {
	ClientsForTrainer(ctx context.Context, trainerID string) ([]domain.TrainerClientAssignment, error)
	TrainersForClient(ctx context.Context, clientID string) ([]domain.TrainerClientAssignment, error)

	// IsAssigned reports whether an active assignment exists for the
	// exact trainer/client pair.
	IsAssigned(ctx context.Context, trainerID, clientID string) (bool, error)

	Assign(ctx context.Context, clientID, trainerID string) error

	// Reassign deactivates the client's assignment to fromTrainerID and
	// creates a new active assignment to toTrainerID.
	Reassign(ctx context.Context, clientID, fromTrainerID, toTrainerID string) error
}
