package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// RelationshipService is the relationship directory: it answers "may
// this trainer act on this client's data" and owns assignment mutation.
type RelationshipService struct {
	repo ports.AssignmentRepository
	log  zerolog.Logger
}

func NewRelationshipService(repo ports.AssignmentRepository, log zerolog.Logger) *RelationshipService {
	return &RelationshipService{repo: repo, log: log}
}

// ClientsForTrainer returns the trainer's active assignments.
func (s *RelationshipService) ClientsForTrainer(ctx context.Context, trainerID string) ([]domain.TrainerClientAssignment, error) {
	if trainerID == "" {
		return nil, nil
	}
	out, err := s.repo.FindActiveByTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("clients for trainer %s: %w", trainerID, err)
	}
	return out, nil
}

// TrainersForClient returns the client's active assignments; normally
// zero or one entries.
func (s *RelationshipService) TrainersForClient(ctx context.Context, clientID string) ([]domain.TrainerClientAssignment, error) {
	if clientID == "" {
		return nil, nil
	}
	out, err := s.repo.FindActiveByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("trainers for client %s: %w", clientID, err)
	}
	return out, nil
}

// IsAssigned reports whether an active assignment exists for the exact
// trainer/client pair. A store failure propagates as an error, never as
// false-with-nil: the gateway needs to distinguish "not assigned" from
// "could not check" to fail closed.
func (s *RelationshipService) IsAssigned(ctx context.Context, trainerID, clientID string) (bool, error) {
	if trainerID == "" || clientID == "" {
		return false, nil
	}
	_, err := s.repo.FindActivePair(ctx, trainerID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrAssignmentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("assignment check %s/%s: %w", trainerID, clientID, err)
	}
	return true, nil
}

// Assign creates an active assignment between client and trainer.
// Idempotent: when the pair is already actively assigned, nothing
// changes.
func (s *RelationshipService) Assign(ctx context.Context, clientID, trainerID string) error {
	if clientID == "" || trainerID == "" {
		return domain.ErrInvalidAuthContext
	}

	assigned, err := s.IsAssigned(ctx, trainerID, clientID)
	if err != nil {
		return err
	}
	if assigned {
		return nil
	}

	if err := s.repo.Insert(ctx, &domain.TrainerClientAssignment{
		TrainerID: trainerID,
		ClientID:  clientID,
		Status:    domain.StatusActive,
	}); err != nil {
		return fmt.Errorf("assign client %s to trainer %s: %w", clientID, trainerID, err)
	}

	s.log.Info().Str("client_id", clientID).Str("trainer_id", trainerID).Msg("client assigned to trainer")
	return nil
}

// Reassign moves a client from one trainer to another. The old row is
// deactivated and a new active row inserted; history stays intact.
// Records created under the old assignment keep their original
// trainerId; the new trainer reaches them only through an admin.
func (s *RelationshipService) Reassign(ctx context.Context, clientID, fromTrainerID, toTrainerID string) error {
	if clientID == "" || fromTrainerID == "" || toTrainerID == "" {
		return domain.ErrInvalidAuthContext
	}
	if fromTrainerID == toTrainerID {
		return nil
	}

	deactivated, err := s.repo.DeactivatePair(ctx, fromTrainerID, clientID)
	if err != nil {
		return fmt.Errorf("reassign client %s: deactivate: %w", clientID, err)
	}
	if deactivated == 0 {
		return domain.ErrAssignmentNotFound
	}

	if err := s.repo.Insert(ctx, &domain.TrainerClientAssignment{
		TrainerID: toTrainerID,
		ClientID:  clientID,
		Status:    domain.StatusActive,
	}); err != nil {
		return fmt.Errorf("reassign client %s: insert: %w", clientID, err)
	}

	s.log.Info().
		Str("client_id", clientID).
		Str("from_trainer", fromTrainerID).
		Str("to_trainer", toTrainerID).
		Msg("client reassigned")
	return nil
}
