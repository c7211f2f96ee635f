package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRoleNotFound = errors.New("role not found")

// Store reads and writes role permission documents. The access lists are
// stored as JSONB so custom roles can carry arbitrary component/feature sets.
type Store interface {
	ActiveRoleIDs(ctx context.Context) ([]string, error)
	GetRole(ctx context.Context, roleID string) (RolePermission, error)
	ListRoles(ctx context.Context, activeOnly bool) ([]RolePermission, error)
	UpsertRole(ctx context.Context, role RolePermission) error
	DeactivateRole(ctx context.Context, roleID string) error
}

type PgStore struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{DB: db}
}

func (s *PgStore) ActiveRoleIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT role_id FROM role_permissions WHERE is_active")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PgStore) GetRole(ctx context.Context, roleID string) (RolePermission, error) {
	var (
		out           RolePermission
		componentJSON []byte
		featureJSON   []byte
	)
	err := s.DB.QueryRow(ctx, `
    SELECT role_id, display_name, hierarchy_level, description, component_access, feature_access, is_active, is_system_role, created_at, updated_at
    FROM role_permissions
    WHERE role_id = $1
  `, strings.ToUpper(roleID)).Scan(
		&out.RoleID, &out.DisplayName, &out.HierarchyLevel, &out.Description,
		&componentJSON, &featureJSON, &out.IsActive, &out.IsSystemRole,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RolePermission{}, ErrRoleNotFound
		}
		return RolePermission{}, err
	}
	if err := json.Unmarshal(componentJSON, &out.ComponentAccess); err != nil {
		return RolePermission{}, err
	}
	if err := json.Unmarshal(featureJSON, &out.FeatureAccess); err != nil {
		return RolePermission{}, err
	}
	return out, nil
}

func (s *PgStore) ListRoles(ctx context.Context, activeOnly bool) ([]RolePermission, error) {
	query := `
    SELECT role_id, display_name, hierarchy_level, description, component_access, feature_access, is_active, is_system_role, created_at, updated_at
    FROM role_permissions
  `
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY hierarchy_level, role_id"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []RolePermission
	for rows.Next() {
		var (
			role          RolePermission
			componentJSON []byte
			featureJSON   []byte
		)
		if err := rows.Scan(
			&role.RoleID, &role.DisplayName, &role.HierarchyLevel, &role.Description,
			&componentJSON, &featureJSON, &role.IsActive, &role.IsSystemRole,
			&role.CreatedAt, &role.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(componentJSON, &role.ComponentAccess); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(featureJSON, &role.FeatureAccess); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (s *PgStore) UpsertRole(ctx context.Context, role RolePermission) error {
	componentJSON, err := json.Marshal(role.ComponentAccess)
	if err != nil {
		return err
	}
	featureJSON, err := json.Marshal(role.FeatureAccess)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO role_permissions (role_id, display_name, hierarchy_level, description, component_access, feature_access, is_active, is_system_role)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (role_id) DO UPDATE SET
      display_name = EXCLUDED.display_name,
      hierarchy_level = EXCLUDED.hierarchy_level,
      description = EXCLUDED.description,
      component_access = EXCLUDED.component_access,
      feature_access = EXCLUDED.feature_access,
      is_active = EXCLUDED.is_active,
      updated_at = now()
  `, strings.ToUpper(role.RoleID), role.DisplayName, role.HierarchyLevel, role.Description,
		componentJSON, featureJSON, role.IsActive, role.IsSystemRole)
	return err
}

func (s *PgStore) DeactivateRole(ctx context.Context, roleID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE role_permissions SET is_active = false, updated_at = now()
    WHERE role_id = $1 AND NOT is_system_role
  `, strings.ToUpper(roleID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}
