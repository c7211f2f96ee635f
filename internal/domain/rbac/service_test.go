package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	activeIDs []string
	roles     map[string]RolePermission
	err       error
}

func (f *fakeStore) ActiveRoleIDs(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.activeIDs, nil
}

func (f *fakeStore) GetRole(ctx context.Context, roleID string) (RolePermission, error) {
	if f.err != nil {
		return RolePermission{}, f.err
	}
	role, ok := f.roles[roleID]
	if !ok {
		return RolePermission{}, ErrRoleNotFound
	}
	return role, nil
}

func (f *fakeStore) ListRoles(ctx context.Context, activeOnly bool) ([]RolePermission, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []RolePermission
	for _, role := range f.roles {
		if !activeOnly || role.IsActive {
			out = append(out, role)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertRole(ctx context.Context, role RolePermission) error {
	if f.err != nil {
		return f.err
	}
	if f.roles == nil {
		f.roles = map[string]RolePermission{}
	}
	f.roles[role.RoleID] = role
	return nil
}

func (f *fakeStore) DeactivateRole(ctx context.Context, roleID string) error {
	if f.err != nil {
		return f.err
	}
	role, ok := f.roles[roleID]
	if !ok || role.IsSystemRole {
		return ErrRoleNotFound
	}
	role.IsActive = false
	f.roles[roleID] = role
	return nil
}

func TestValidRolesMergesCustomRoles(t *testing.T) {
	svc := NewService(&fakeStore{activeIDs: []string{"INTERN", RoleEmployee}})

	roles := svc.ValidRoles(context.Background())

	assert.Contains(t, roles, "INTERN")
	assert.Contains(t, roles, RoleAdmin)
	// EMPLOYEE appears once even though both tiers carry it.
	count := 0
	for _, r := range roles {
		if r == RoleEmployee {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestValidRolesDegradesToSystemListOnStoreError(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("store down")})

	roles := svc.ValidRoles(context.Background())

	assert.ElementsMatch(t, SystemRoles, roles)
	assert.True(t, svc.IsValidRole(context.Background(), "admin"))
	assert.False(t, svc.IsValidRole(context.Background(), "INTERN"))
}

func TestResolveFallsBackForSystemRoles(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("store down")})

	role, err := svc.Resolve(context.Background(), RoleAdmin)
	require.NoError(t, err)
	assert.True(t, role.HasFeature(FeatureLeaveApprove))
	assert.False(t, role.HasFeature(FeatureSalaryViewAll))
	assert.True(t, role.HasComponent(ComponentAdmin))

	// Custom roles get no fallback when the store is down.
	_, err = svc.Resolve(context.Background(), "INTERN")
	require.Error(t, err)
}

func TestResolveUnknownRole(t *testing.T) {
	svc := NewService(&fakeStore{roles: map[string]RolePermission{}})

	_, err := svc.Resolve(context.Background(), "GHOST")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestHasFeatureUsesStoredFlags(t *testing.T) {
	store := &fakeStore{roles: map[string]RolePermission{
		RoleAccountant: {
			RoleID:   RoleAccountant,
			IsActive: true,
			FeatureAccess: []FeatureAccess{
				{FeatureID: FeatureSalaryViewAll, HasAccess: true},
				{FeatureID: FeatureLeaveApprove, HasAccess: false},
			},
		},
	}}
	svc := NewService(store)

	ok, err := svc.HasFeature(context.Background(), RoleAccountant, FeatureSalaryViewAll)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasFeature(context.Background(), RoleAccountant, FeatureLeaveApprove)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeactivateRoleProtectsSystemRoles(t *testing.T) {
	store := &fakeStore{roles: map[string]RolePermission{
		"INTERN": {RoleID: "INTERN", IsActive: true},
	}}
	svc := NewService(store)

	assert.ErrorIs(t, svc.DeactivateRole(context.Background(), RoleAdmin), ErrSystemRoleImmutable)
	require.NoError(t, svc.DeactivateRole(context.Background(), "intern"))
	assert.False(t, store.roles["INTERN"].IsActive)
}

func TestSaveRoleNormalizesAndProtectsSystemFlags(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	require.NoError(t, svc.SaveRole(context.Background(), RolePermission{RoleID: " employee ", IsActive: false}))
	saved := store.roles[RoleEmployee]
	assert.True(t, saved.IsSystemRole)
	assert.True(t, saved.IsActive)

	assert.ErrorIs(t, svc.SaveRole(context.Background(), RolePermission{RoleID: "  "}), ErrInvalidRole)
}
