package ports

import (
	"context"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// RegisterInput carries everything needed to create a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AccountService implements registration and login. Registration is the
// "first authenticated use" moment: it ensures a default client role and
// auto-assigns the configured default trainer.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	// Login returns a signed token and the account on success.
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}

// TrainerNotification is one item on the notification fan-out queue.
// Processing writes a record into the trainernotifications collection
// through the gateway, so notifications obey the same scoping rules as
// every other protected record.
type TrainerNotification struct {
	TrainerID string
	ClientID  string
	Type      string
	Message   string
}

// Notifier enqueues trainer notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(n TrainerNotification)
}
