package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// RoleService is the role directory: it resolves members to roles and
// owns the default-role creation path. Lookups go through an optional
// read-through cache; the cache is never authoritative for a grant
// (errors fall through to the repository, and the repository's answer
// wins).
type RoleService struct {
	repo  ports.RoleRepository
	cache ports.RoleCache // may be nil
	log   zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, cache ports.RoleCache, log zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, cache: cache, log: log}
}

// GetRole returns the member's active role, domain.ErrRoleNotFound when
// none exists, or the store error. Callers must treat both of the
// latter as "deny"; only ErrRoleNotFound may trigger default-role
// creation.
func (s *RoleService) GetRole(ctx context.Context, memberID string) (domain.Role, error) {
	if memberID == "" {
		return "", domain.ErrRoleNotFound
	}

	if s.cache != nil {
		role, ok, err := s.cache.Get(ctx, memberID)
		if err != nil {
			s.log.Warn().Err(err).Str("member_id", memberID).Msg("role cache read failed, falling through")
		} else if ok {
			return role, nil
		}
	}

	ra, err := s.repo.FindActive(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return "", domain.ErrRoleNotFound
		}
		return "", fmt.Errorf("role lookup for %s: %w", memberID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, memberID, ra.Role); err != nil {
			s.log.Warn().Err(err).Str("member_id", memberID).Msg("role cache write failed")
		}
	}
	return ra.Role, nil
}

// EnsureDefaultRole idempotently creates an active "client" assignment
// for a member with no role and returns whatever role is active after
// the call. The underlying conditional insert makes this safe under
// concurrent invocation: two racing calls for a new member still end
// with a single active row.
func (s *RoleService) EnsureDefaultRole(ctx context.Context, memberID string) (domain.Role, error) {
	if memberID == "" {
		return "", domain.ErrInvalidAuthContext
	}

	ra, err := s.repo.InsertIfAbsent(ctx, memberID, domain.RoleClient)
	if err != nil {
		return "", fmt.Errorf("ensure default role for %s: %w", memberID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, memberID, ra.Role); err != nil {
			s.log.Warn().Err(err).Str("member_id", memberID).Msg("role cache write failed")
		}
	}

	s.log.Debug().Str("member_id", memberID).Str("role", string(ra.Role)).Msg("default role ensured")
	return ra.Role, nil
}

// SetRole replaces the member's active role: the old assignment is
// deactivated, never deleted, and a fresh active row is written.
// Privilege is the caller's responsibility; the admin check lives in
// the API layer.
func (s *RoleService) SetRole(ctx context.Context, memberID string, role domain.Role) error {
	if memberID == "" || !role.Known() {
		return domain.ErrInvalidAuthContext
	}

	deactivated, err := s.repo.DeactivateAll(ctx, memberID)
	if err != nil {
		return fmt.Errorf("set role for %s: deactivate: %w", memberID, err)
	}
	if deactivated > 1 {
		// One active row per member is the invariant; more than one is
		// a defect worth surfacing, not silently absorbing.
		s.log.Warn().Str("member_id", memberID).Int64("rows", deactivated).Msg("multiple active role assignments found")
	}

	if err := s.repo.Insert(ctx, &domain.RoleAssignment{
		MemberID: memberID,
		Role:     role,
		Status:   domain.StatusActive,
	}); err != nil {
		return fmt.Errorf("set role for %s: insert: %w", memberID, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, memberID); err != nil {
			s.log.Warn().Err(err).Str("member_id", memberID).Msg("role cache invalidate failed")
		}
	}

	s.log.Info().Str("member_id", memberID).Str("role", string(role)).Msg("role updated")
	return nil
}

// IsClient reports whether the member's active role is "client".
// A missing role is false, not an error; store failures propagate so
// callers can fail closed.
func (s *RoleService) IsClient(ctx context.Context, memberID string) (bool, error) {
	return s.hasRole(ctx, memberID, domain.RoleClient)
}

// IsTrainer reports whether the member's active role is "trainer".
func (s *RoleService) IsTrainer(ctx context.Context, memberID string) (bool, error) {
	return s.hasRole(ctx, memberID, domain.RoleTrainer)
}

// IsAdmin reports whether the member's active role is "admin".
func (s *RoleService) IsAdmin(ctx context.Context, memberID string) (bool, error) {
	return s.hasRole(ctx, memberID, domain.RoleAdmin)
}

func (s *RoleService) hasRole(ctx context.Context, memberID string, want domain.Role) (bool, error) {
	role, err := s.GetRole(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return false, nil
		}
		return false, err
	}
	return role == want, nil
}
