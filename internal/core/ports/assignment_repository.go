package ports

import (
	"context"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// AssignmentRepository persists trainer-client assignments. Reassignment
// deactivates the old row and inserts a new one; history is retained.
type AssignmentRepository interface {
	FindActiveByTrainer(ctx context.Context, trainerID string) ([]domain.TrainerClientAssignment, error)
	FindActiveByClient(ctx context.Context, clientID string) ([]domain.TrainerClientAssignment, error)

	// FindActivePair returns the active assignment for the exact
	// trainer/client pair, or domain.ErrAssignmentNotFound.
	FindActivePair(ctx context.Context, trainerID, clientID string) (*domain.TrainerClientAssignment, error)

	Insert(ctx context.Context, a *domain.TrainerClientAssignment) error

	// DeactivatePair marks the active row for the pair inactive.
	// Returns the number of rows touched.
	DeactivatePair(ctx context.Context, trainerID, clientID string) (int64, error)
}
