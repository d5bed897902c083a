package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

type stubAssignmentRepo struct {
	rows    []*domain.TrainerClientAssignment
	findErr error
	nextID  int
}

func (r *stubAssignmentRepo) FindActiveByTrainer(_ context.Context, trainerID string) ([]domain.TrainerClientAssignment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.TrainerClientAssignment
	for _, a := range r.rows {
		if a.TrainerID == trainerID && a.Status == domain.StatusActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) FindActiveByClient(_ context.Context, clientID string) ([]domain.TrainerClientAssignment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.TrainerClientAssignment
	for _, a := range r.rows {
		if a.ClientID == clientID && a.Status == domain.StatusActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) FindActivePair(_ context.Context, trainerID, clientID string) (*domain.TrainerClientAssignment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.rows {
		if a.TrainerID == trainerID && a.ClientID == clientID && a.Status == domain.StatusActive {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAssignmentNotFound
}

func (r *stubAssignmentRepo) Insert(_ context.Context, a *domain.TrainerClientAssignment) error {
	r.nextID++
	clone := *a
	clone.ID = fmt.Sprintf("assign-%d", r.nextID)
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *stubAssignmentRepo) DeactivatePair(_ context.Context, trainerID, clientID string) (int64, error) {
	var n int64
	for _, a := range r.rows {
		if a.TrainerID == trainerID && a.ClientID == clientID && a.Status == domain.StatusActive {
			a.Status = domain.StatusInactive
			n++
		}
	}
	return n, nil
}

func newRelService(repo *stubAssignmentRepo) *RelationshipService {
	return NewRelationshipService(repo, zerolog.Nop())
}

func TestRelationship_AssignAndIsAssigned(t *testing.T) {
	repo := &stubAssignmentRepo{}
	svc := newRelService(repo)

	ok, err := svc.IsAssigned(context.Background(), "t1", "c1")
	if err != nil || ok {
		t.Fatalf("IsAssigned before assign = %v, %v", ok, err)
	}

	if err := svc.Assign(context.Background(), "c1", "t1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	ok, err = svc.IsAssigned(context.Background(), "t1", "c1")
	if err != nil || !ok {
		t.Fatalf("IsAssigned after assign = %v, %v", ok, err)
	}

	// Exact-pair semantics: the reverse pair is not assigned.
	ok, err = svc.IsAssigned(context.Background(), "c1", "t1")
	if err != nil || ok {
		t.Fatalf("reversed pair must not match: %v, %v", ok, err)
	}
}

func TestRelationship_AssignIdempotent(t *testing.T) {
	repo := &stubAssignmentRepo{}
	svc := newRelService(repo)

	for i := 0; i < 3; i++ {
		if err := svc.Assign(context.Background(), "c1", "t1"); err != nil {
			t.Fatalf("Assign #%d: %v", i+1, err)
		}
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 assignment row, got %d", len(repo.rows))
	}
}

func TestRelationship_ReassignKeepsHistory(t *testing.T) {
	repo := &stubAssignmentRepo{}
	svc := newRelService(repo)

	if err := svc.Assign(context.Background(), "c1", "t1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := svc.Reassign(context.Background(), "c1", "t1", "t2"); err != nil {
		t.Fatalf("Reassign: %v", err)
	}

	if len(repo.rows) != 2 {
		t.Fatalf("reassign must create a new row, got %d rows", len(repo.rows))
	}
	old, fresh := repo.rows[0], repo.rows[1]
	if old.Status != domain.StatusInactive || old.TrainerID != "t1" {
		t.Fatalf("old row not deactivated: %+v", old)
	}
	if fresh.Status != domain.StatusActive || fresh.TrainerID != "t2" {
		t.Fatalf("new row wrong: %+v", fresh)
	}

	trainers, err := svc.TrainersForClient(context.Background(), "c1")
	if err != nil {
		t.Fatalf("TrainersForClient: %v", err)
	}
	if len(trainers) != 1 || trainers[0].TrainerID != "t2" {
		t.Fatalf("expected only t2 active, got %+v", trainers)
	}
}

func TestRelationship_ReassignUnknownPair(t *testing.T) {
	svc := newRelService(&stubAssignmentRepo{})
	err := svc.Reassign(context.Background(), "c1", "t1", "t2")
	if !errors.Is(err, domain.ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestRelationship_ClientsForTrainer(t *testing.T) {
	repo := &stubAssignmentRepo{}
	svc := newRelService(repo)

	for _, c := range []string{"c1", "c2", "c3"} {
		if err := svc.Assign(context.Background(), c, "t1"); err != nil {
			t.Fatalf("Assign(%s): %v", c, err)
		}
	}
	if err := svc.Reassign(context.Background(), "c3", "t1", "t2"); err != nil {
		t.Fatalf("Reassign: %v", err)
	}

	clients, err := svc.ClientsForTrainer(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ClientsForTrainer: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 active clients for t1, got %d", len(clients))
	}
}

func TestRelationship_IsAssignedStoreErrorPropagates(t *testing.T) {
	repo := &stubAssignmentRepo{findErr: errors.New("store unavailable")}
	svc := newRelService(repo)

	ok, err := svc.IsAssigned(context.Background(), "t1", "c1")
	if err == nil {
		t.Fatal("store failure must propagate, not read as not-assigned")
	}
	if ok {
		t.Fatal("store failure must never report assigned")
	}
}
