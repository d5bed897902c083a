package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// GatewayService is the policy-enforcement point between callers and
// the record store. Scoping happens in two layers: the store query
// carries an ownership predicate when one is known (pushdown), and
// every returned record is re-checked in process. The second layer is
// the one the security guarantee rests on; the store is never trusted
// to have pre-filtered.
//
// All failures are closed: a malformed context, an unknown collection,
// a relationship check that errors, or a store error each end the
// operation with a denial or a propagated error, never an implicit
// grant.
type GatewayService struct {
	store         ports.RecordStore
	relationships ports.RelationshipDirectory
	log           zerolog.Logger
}

func NewGatewayService(store ports.RecordStore, relationships ports.RelationshipDirectory, log zerolog.Logger) *GatewayService {
	return &GatewayService{store: store, relationships: relationships, log: log}
}

// guard validates the context and resolves the collection rule. Every
// public operation starts here.
func (s *GatewayService) guard(c domain.Collection, ac domain.AuthContext) (domain.CollectionRule, error) {
	if !ac.Valid() {
		return domain.CollectionRule{}, domain.ErrInvalidAuthContext
	}
	rule, ok := domain.RuleFor(c)
	if !ok {
		return domain.CollectionRule{}, fmt.Errorf("%w: %s", domain.ErrNotProtectedCollection, c)
	}
	return rule, nil
}

// visible reports whether one record may be seen by the caller. This is
// the in-process half of the scoping guarantee; it compares ownership
// fields against the member identifier only.
func visible(rec domain.Record, ac domain.AuthContext) bool {
	switch ac.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		return rec.ClientID() == ac.MemberID
	case domain.RoleTrainer:
		return rec.TrainerID() == ac.MemberID
	}
	return false
}

// GetScoped returns every record in the collection the caller is
// allowed to see: clients their own, trainers their own, admins all.
func (s *GatewayService) GetScoped(ctx context.Context, c domain.Collection, ac domain.AuthContext) ([]domain.Record, error) {
	rule, err := s.guard(c, ac)
	if err != nil {
		return nil, err
	}

	q := ports.RecordQuery{}
	switch ac.Role {
	case domain.RoleClient:
		if rule.ClientScoped {
			q.ClientID = ac.MemberID
		}
	case domain.RoleTrainer:
		if rule.TrainerScoped {
			q.TrainerID = ac.MemberID
		}
	}

	items, err := s.store.GetAll(ctx, c.String(), q)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c, err)
	}

	out := make([]domain.Record, 0, len(items))
	for _, item := range items {
		if visible(item, ac) {
			out = append(out, item)
		}
	}
	return out, nil
}

// GetByIDScoped returns a single record by id. Both "no such record"
// and "record owned by someone else" come back as
// domain.ErrRecordNotFound: a denied caller learns nothing about
// whether the id exists.
func (s *GatewayService) GetByIDScoped(ctx context.Context, c domain.Collection, id string, ac domain.AuthContext) (domain.Record, error) {
	if _, err := s.guard(c, ac); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrRecordNotFound
	}

	rec, err := s.store.GetByID(ctx, c.String(), id)
	if err != nil {
		return nil, err
	}
	if !visible(rec, ac) {
		s.log.Debug().
			Str("collection", c.String()).
			Str("member_id", ac.MemberID).
			Str("role", string(ac.Role)).
			Msg("record hidden from caller")
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

// GetForClient returns one specific client's records. Clients may only
// name themselves; trainers need an active assignment to the client;
// admins pass. Results are filtered to the requested client even for
// admins, since the caller asked for one subject, not everyone.
func (s *GatewayService) GetForClient(ctx context.Context, c domain.Collection, clientID string, ac domain.AuthContext) ([]domain.Record, error) {
	if _, err := s.guard(c, ac); err != nil {
		return nil, err
	}
	if clientID == "" {
		return nil, fmt.Errorf("%w: empty client id", domain.ErrUnauthorized)
	}

	switch ac.Role {
	case domain.RoleClient:
		if clientID != ac.MemberID {
			return nil, fmt.Errorf("%w: clients cannot query other clients", domain.ErrUnauthorized)
		}
	case domain.RoleTrainer:
		assigned, err := s.relationships.IsAssigned(ctx, ac.MemberID, clientID)
		if err != nil {
			// Could not verify the relationship: deny.
			return nil, fmt.Errorf("relationship check failed: %w", err)
		}
		if !assigned {
			return nil, fmt.Errorf("%w: trainer does not have access to client", domain.ErrUnauthorized)
		}
	case domain.RoleAdmin:
		// full access, still scoped to the requested client below
	}

	items, err := s.store.GetAll(ctx, c.String(), ports.RecordQuery{ClientID: clientID})
	if err != nil {
		return nil, fmt.Errorf("fetch %s for client: %w", c, err)
	}

	out := make([]domain.Record, 0, len(items))
	for _, item := range items {
		if item.ClientID() == clientID {
			out = append(out, item)
		}
	}
	return out, nil
}

// GetForTrainer returns one trainer's records. Admin-only: trainers use
// GetScoped for their own data, and nobody else has a reason to ask.
func (s *GatewayService) GetForTrainer(ctx context.Context, c domain.Collection, trainerID string, ac domain.AuthContext) ([]domain.Record, error) {
	if _, err := s.guard(c, ac); err != nil {
		return nil, err
	}
	if !ac.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can query trainer-scoped data", domain.ErrUnauthorized)
	}
	if trainerID == "" {
		return nil, fmt.Errorf("%w: empty trainer id", domain.ErrUnauthorized)
	}

	items, err := s.store.GetAll(ctx, c.String(), ports.RecordQuery{TrainerID: trainerID})
	if err != nil {
		return nil, fmt.Errorf("fetch %s for trainer: %w", c, err)
	}

	out := make([]domain.Record, 0, len(items))
	for _, item := range items {
		if item.TrainerID() == trainerID {
			out = append(out, item)
		}
	}
	return out, nil
}

// canWrite enforces the producer-side ownership policy: a client writes
// records about itself and a trainer writes records it owns. When the
// record names a client, the trainer must be assigned to that client.
// Admin passes.
func (s *GatewayService) canWrite(ctx context.Context, rec domain.Record, ac domain.AuthContext) error {
	switch ac.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleClient:
		if rec.ClientID() != ac.MemberID {
			return fmt.Errorf("%w: record not owned by caller", domain.ErrUnauthorized)
		}
		return nil
	case domain.RoleTrainer:
		if rec.TrainerID() != ac.MemberID {
			return fmt.Errorf("%w: record not owned by caller", domain.ErrUnauthorized)
		}
		if clientID := rec.ClientID(); clientID != "" {
			assigned, err := s.relationships.IsAssigned(ctx, ac.MemberID, clientID)
			if err != nil {
				return fmt.Errorf("relationship check failed: %w", err)
			}
			if !assigned {
				return fmt.Errorf("%w: trainer does not have access to client", domain.ErrUnauthorized)
			}
		}
		return nil
	}
	return domain.ErrUnauthorized
}

// CreateRecord writes a new protected record: ownership policy first,
// then the integrity rule, then the store. Returns the record with its
// assigned id.
func (s *GatewayService) CreateRecord(ctx context.Context, c domain.Collection, rec domain.Record, ac domain.AuthContext) (domain.Record, error) {
	if _, err := s.guard(c, ac); err != nil {
		return nil, err
	}
	if err := s.canWrite(ctx, rec, ac); err != nil {
		return nil, err
	}
	if err := domain.ValidateRecord(c, rec); err != nil {
		return nil, err
	}

	id, err := s.store.Insert(ctx, c.String(), rec)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", c, err)
	}

	created := rec.Clone()
	created[domain.FieldID] = id
	s.log.Info().
		Str("collection", c.String()).
		Str("record_id", id).
		Str("member_id", ac.MemberID).
		Msg("record created")
	return created, nil
}

// UpdateRecord rewrites an existing record the caller can see.
// Ownership fields are immutable after creation; an update that tries
// to move a record to another subject is rejected outright.
func (s *GatewayService) UpdateRecord(ctx context.Context, c domain.Collection, id string, rec domain.Record, ac domain.AuthContext) error {
	existing, err := s.GetByIDScoped(ctx, c, id, ac)
	if err != nil {
		return err
	}

	if cid := rec.ClientID(); cid != "" && cid != existing.ClientID() {
		return domain.ErrOwnershipImmutable
	}
	if tid := rec.TrainerID(); tid != "" && tid != existing.TrainerID() {
		return domain.ErrOwnershipImmutable
	}

	merged := existing.Clone()
	for k, v := range rec {
		if k == domain.FieldID {
			continue
		}
		merged[k] = v
	}
	if err := domain.ValidateRecord(c, merged); err != nil {
		return err
	}

	if err := s.store.Update(ctx, c.String(), id, merged); err != nil {
		return fmt.Errorf("update %s/%s: %w", c, id, err)
	}
	return nil
}

// DeleteRecord removes a record the caller can see. The not-found
// answer for an unowned id matches GetByIDScoped's.
func (s *GatewayService) DeleteRecord(ctx context.Context, c domain.Collection, id string, ac domain.AuthContext) error {
	if _, err := s.GetByIDScoped(ctx, c, id, ac); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, c.String(), id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c, id, err)
	}
	s.log.Info().
		Str("collection", c.String()).
		Str("record_id", id).
		Str("member_id", ac.MemberID).
		Msg("record deleted")
	return nil
}

// AuditCollection scans a whole protected collection against its
// integrity rule. Admin-only; this is the read-side check for orphans
// that slipped in before the validator guarded every write path.
func (s *GatewayService) AuditCollection(ctx context.Context, c domain.Collection, ac domain.AuthContext) (domain.ValidationReport, error) {
	if _, err := s.guard(c, ac); err != nil {
		return domain.ValidationReport{}, err
	}
	if !ac.IsAdmin() {
		return domain.ValidationReport{}, fmt.Errorf("%w: only admins can audit collections", domain.ErrUnauthorized)
	}

	items, err := s.store.GetAll(ctx, c.String(), ports.RecordQuery{})
	if err != nil {
		return domain.ValidationReport{}, fmt.Errorf("audit %s: %w", c, err)
	}
	return domain.ValidateRecords(c, items), nil
}
