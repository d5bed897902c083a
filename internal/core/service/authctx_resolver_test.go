package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

type stubRoleDirectory struct {
	roles  map[string]domain.Role
	getErr error
}

func (d *stubRoleDirectory) GetRole(_ context.Context, memberID string) (domain.Role, error) {
	if d.getErr != nil {
		return "", d.getErr
	}
	role, ok := d.roles[memberID]
	if !ok {
		return "", domain.ErrRoleNotFound
	}
	return role, nil
}

func (d *stubRoleDirectory) EnsureDefaultRole(_ context.Context, memberID string) (domain.Role, error) {
	if role, ok := d.roles[memberID]; ok {
		return role, nil
	}
	d.roles[memberID] = domain.RoleClient
	return domain.RoleClient, nil
}

func (d *stubRoleDirectory) SetRole(_ context.Context, memberID string, role domain.Role) error {
	d.roles[memberID] = role
	return nil
}

func (d *stubRoleDirectory) IsClient(ctx context.Context, memberID string) (bool, error) {
	r, err := d.GetRole(ctx, memberID)
	return r == domain.RoleClient, ignoreNotFound(err)
}
func (d *stubRoleDirectory) IsTrainer(ctx context.Context, memberID string) (bool, error) {
	r, err := d.GetRole(ctx, memberID)
	return r == domain.RoleTrainer, ignoreNotFound(err)
}
func (d *stubRoleDirectory) IsAdmin(ctx context.Context, memberID string) (bool, error) {
	r, err := d.GetRole(ctx, memberID)
	return r == domain.RoleAdmin, ignoreNotFound(err)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrRoleNotFound) {
		return nil
	}
	return err
}

func TestResolve_BuildsValidContext(t *testing.T) {
	dir := &stubRoleDirectory{roles: map[string]domain.Role{"m1": domain.RoleTrainer}}
	resolver := NewAuthContextResolver(dir)

	ac, err := resolver.Resolve(context.Background(), Identity{MemberID: "m1", Email: "m1@example.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ac.MemberID != "m1" || ac.Role != domain.RoleTrainer {
		t.Fatalf("unexpected context: %+v", ac)
	}
	if !ac.Valid() {
		t.Fatal("resolved context must be valid")
	}
}

func TestResolve_MemberIDOnlyNeverEmail(t *testing.T) {
	// An identity whose email happens to be another member's id must
	// resolve on MemberID alone.
	dir := &stubRoleDirectory{roles: map[string]domain.Role{
		"m1":             domain.RoleClient,
		"m2@example.com": domain.RoleAdmin,
	}}
	resolver := NewAuthContextResolver(dir)

	ac, err := resolver.Resolve(context.Background(), Identity{MemberID: "m1", Email: "m2@example.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ac.Role != domain.RoleClient || ac.MemberID != "m1" {
		t.Fatalf("email leaked into resolution: %+v", ac)
	}
}

func TestResolve_MissingIdentity(t *testing.T) {
	resolver := NewAuthContextResolver(&stubRoleDirectory{roles: map[string]domain.Role{}})

	_, err := resolver.Resolve(context.Background(), Identity{Email: "only@example.com"})
	if !errors.Is(err, domain.ErrInvalidAuthContext) {
		t.Fatalf("expected ErrInvalidAuthContext, got %v", err)
	}
}

func TestResolve_NoRole(t *testing.T) {
	resolver := NewAuthContextResolver(&stubRoleDirectory{roles: map[string]domain.Role{}})

	_, err := resolver.Resolve(context.Background(), Identity{MemberID: "ghost"})
	if !errors.Is(err, domain.ErrInvalidAuthContext) {
		t.Fatalf("expected ErrInvalidAuthContext, got %v", err)
	}
}

func TestResolve_LookupFailurePropagates(t *testing.T) {
	dir := &stubRoleDirectory{getErr: errors.New("store unavailable")}
	resolver := NewAuthContextResolver(dir)

	_, err := resolver.Resolve(context.Background(), Identity{MemberID: "m1"})
	if err == nil || errors.Is(err, domain.ErrInvalidAuthContext) {
		t.Fatalf("lookup failure must stay distinguishable: %v", err)
	}
}

func TestAuthContextValid(t *testing.T) {
	cases := []struct {
		ac   domain.AuthContext
		want bool
	}{
		{domain.AuthContext{MemberID: "m1", Role: domain.RoleClient}, true},
		{domain.AuthContext{MemberID: "m1", Role: domain.RoleTrainer}, true},
		{domain.AuthContext{MemberID: "m1", Role: domain.RoleAdmin}, true},
		{domain.AuthContext{MemberID: "", Role: domain.RoleClient}, false},
		{domain.AuthContext{MemberID: "m1", Role: ""}, false},
		{domain.AuthContext{MemberID: "m1", Role: "root"}, false},
		{domain.AuthContext{}, false},
	}
	for _, tc := range cases {
		if got := tc.ac.Valid(); got != tc.want {
			t.Errorf("Valid(%+v) = %v, want %v", tc.ac, got, tc.want)
		}
	}
}
