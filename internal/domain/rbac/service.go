package rbac

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

var (
	ErrSystemRoleImmutable = errors.New("system roles cannot be removed")
	ErrInvalidRole         = errors.New("invalid role")
)

type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// ValidRoles returns the union of the static system roles and the active
// roles in the permission store. The dynamic set is re-queried on every call
// because custom roles can be added at runtime; on store error the system
// list alone is returned rather than failing the caller.
func (s *Service) ValidRoles(ctx context.Context) []string {
	valid := make([]string, 0, len(SystemRoles))
	seen := make(map[string]bool, len(SystemRoles))
	for _, role := range SystemRoles {
		valid = append(valid, role)
		seen[role] = true
	}

	dynamic, err := s.Store.ActiveRoleIDs(ctx)
	if err != nil {
		slog.Warn("could not fetch custom roles, using system roles only", "err", err)
		return valid
	}
	for _, role := range dynamic {
		if !seen[role] {
			valid = append(valid, role)
			seen[role] = true
		}
	}
	return valid
}

// IsValidRole is the full two-tier check: system list OR active custom role.
func (s *Service) IsValidRole(ctx context.Context, role string) bool {
	role = strings.ToUpper(strings.TrimSpace(role))
	for _, candidate := range s.ValidRoles(ctx) {
		if candidate == role {
			return true
		}
	}
	return false
}

// Resolve returns the role's full permission set. When the store is
// unreachable, system roles degrade to a minimal hard-coded permission set
// instead of blocking the caller; unknown roles resolve to ErrRoleNotFound.
func (s *Service) Resolve(ctx context.Context, roleID string) (RolePermission, error) {
	roleID = strings.ToUpper(strings.TrimSpace(roleID))
	role, err := s.Store.GetRole(ctx, roleID)
	if err == nil {
		return role, nil
	}
	if errors.Is(err, ErrRoleNotFound) {
		return RolePermission{}, err
	}

	slog.Warn("permission store unreachable, using fallback permissions", "role", roleID, "err", err)
	if IsSystemRole(roleID) {
		return fallbackPermissions(roleID), nil
	}
	return RolePermission{}, err
}

// HasFeature resolves the role and checks a feature flag. Resolution failure
// for a system role degrades to the fallback set inside Resolve.
func (s *Service) HasFeature(ctx context.Context, roleID, featureID string) (bool, error) {
	role, err := s.Resolve(ctx, roleID)
	if err != nil {
		return false, err
	}
	return role.HasFeature(featureID), nil
}

func (s *Service) HasComponent(ctx context.Context, roleID, componentID string) (bool, error) {
	role, err := s.Resolve(ctx, roleID)
	if err != nil {
		return false, err
	}
	return role.HasComponent(componentID), nil
}

func (s *Service) ListRoles(ctx context.Context, activeOnly bool) ([]RolePermission, error) {
	return s.Store.ListRoles(ctx, activeOnly)
}

func (s *Service) GetRole(ctx context.Context, roleID string) (RolePermission, error) {
	return s.Store.GetRole(ctx, strings.ToUpper(strings.TrimSpace(roleID)))
}

// SaveRole creates or updates a role definition. Custom roles are additive;
// a save can never demote a system role to deletable.
func (s *Service) SaveRole(ctx context.Context, role RolePermission) error {
	role.RoleID = strings.ToUpper(strings.TrimSpace(role.RoleID))
	if role.RoleID == "" {
		return ErrInvalidRole
	}
	if IsSystemRole(role.RoleID) {
		role.IsSystemRole = true
		role.IsActive = true
	}
	return s.Store.UpsertRole(ctx, role)
}

func (s *Service) DeactivateRole(ctx context.Context, roleID string) error {
	roleID = strings.ToUpper(strings.TrimSpace(roleID))
	if IsSystemRole(roleID) {
		return ErrSystemRoleImmutable
	}
	return s.Store.DeactivateRole(ctx, roleID)
}

// fallbackPermissions is the conservative default used when the permission
// store cannot be read: admins keep the admin panel, everyone keeps the
// self-service components, and no salary feature is granted.
func fallbackPermissions(roleID string) RolePermission {
	components := []ComponentAccess{
		{ComponentID: ComponentDashboard, ComponentName: "Dashboard", HasAccess: true},
		{ComponentID: ComponentAttendance, ComponentName: "Attendance", HasAccess: true},
		{ComponentID: ComponentLeave, ComponentName: "Leave Management", HasAccess: true},
		{ComponentID: ComponentEFiling, ComponentName: "E-Filing", HasAccess: true},
		{ComponentID: ComponentAdmin, ComponentName: "Admin Panel", HasAccess: IsAdminOrCEO(roleID)},
	}
	features := []FeatureAccess{
		{FeatureID: FeatureLeaveApply, FeatureName: "Apply Leave", HasAccess: true},
		{FeatureID: FeatureAttendanceMark, FeatureName: "Mark Attendance", HasAccess: true},
		{FeatureID: FeatureLeaveApprove, FeatureName: "Approve Leave", HasAccess: IsAdminOrCEO(roleID)},
	}
	return RolePermission{
		RoleID:          roleID,
		DisplayName:     roleID,
		HierarchyLevel:  3,
		ComponentAccess: components,
		FeatureAccess:   features,
		IsActive:        true,
		IsSystemRole:    true,
	}
}
