package ports

import (
	"context"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// RecordQuery carries the optional store-side predicates for a list
// fetch. Ownership predicates are pushdown hints set by the gateway;
// the gateway re-checks every returned record in process regardless, so
// a store that ignores them is wasteful but never unsafe.
type RecordQuery struct {
	ClientID  string // non-empty: filter clientId store-side
	TrainerID string // non-empty: filter trainerId store-side
	Limit     int    // 0 = no limit
	Offset    int
}

// RecordStore is the generic document store the gateway sits in front
// of. Collection names are raw strings here on purpose: this interface
// is the unguarded surface, and direct calls against protected
// collection names are what cmd/collectionlint flags.
type RecordStore interface {
	GetAll(ctx context.Context, collection string, q RecordQuery) ([]domain.Record, error)
	// GetByID returns domain.ErrRecordNotFound when no record matches.
	GetByID(ctx context.Context, collection, id string) (domain.Record, error)
	// Insert returns the id assigned to the new record.
	Insert(ctx context.Context, collection string, rec domain.Record) (string, error)
	Update(ctx context.Context, collection, id string, rec domain.Record) error
	Delete(ctx context.Context, collection, id string) error
}
