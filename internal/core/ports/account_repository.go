package ports

import (
	"context"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// AccountRepository persists member accounts.
type AccountRepository interface {
	// Create inserts the account and returns it with its assigned ID.
	// Returns domain.ErrAccountExists on a duplicate email.
	Create(ctx context.Context, acct *domain.Account) (*domain.Account, error)
	// FindByEmail returns domain.ErrAccountNotFound when no account
	// matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}
