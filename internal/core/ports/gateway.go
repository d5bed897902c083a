package ports

import (
	"context"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// DataGateway is the policy-enforcement point in front of the record
// store. Every operation requires a valid domain.AuthContext and only
// accepts collections on the protected allowlist.
//
// Read policy:
//   - GetScoped filters to the caller's own records (admin: all).
//   - GetByIDScoped returns domain.ErrRecordNotFound for BOTH a missing
//     record and a record owned by someone else, so existence of another
//     subject's record never leaks (anti-enumeration).
//   - GetForClient / GetForTrainer are targeted queries; here the caller
//     has already named a subject, so denial is an explicit
//     domain.ErrUnauthorized.
//
// Write policy: the caller must own the record it writes (admin
// exempt), ownership fields are immutable after creation, and every
// write passes the integrity validator before reaching the store.
type DataGateway interface {
	GetScoped(ctx context.Context, c domain.Collection, ac domain.AuthContext) ([]domain.Record, error)
	GetByIDScoped(ctx context.Context, c domain.Collection, id string, ac domain.AuthContext) (domain.Record, error)
	GetForClient(ctx context.Context, c domain.Collection, clientID string, ac domain.AuthContext) ([]domain.Record, error)
	GetForTrainer(ctx context.Context, c domain.Collection, trainerID string, ac domain.AuthContext) ([]domain.Record, error)

	CreateRecord(ctx context.Context, c domain.Collection, rec domain.Record, ac domain.AuthContext) (domain.Record, error)
	UpdateRecord(ctx context.Context, c domain.Collection, id string, rec domain.Record, ac domain.AuthContext) error
	DeleteRecord(ctx context.Context, c domain.Collection, id string, ac domain.AuthContext) error

	// AuditCollection is admin-only: it scans the whole collection and
	// reports records violating the collection's integrity rule.
	AuditCollection(ctx context.Context, c domain.Collection, ac domain.AuthContext) (domain.ValidationReport, error)
}
