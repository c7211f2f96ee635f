package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/auth"
	"peopleops/internal/domain/rbac"
	"peopleops/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureRolePermissions(ctx, pool); err != nil {
		return err
	}
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if err := ensureAdminUser(ctx, pool, cfg); err != nil {
			return err
		}
	}
	return nil
}

// ensureRolePermissions inserts the default permission document for every
// system role, leaving rows an admin already customized untouched.
func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, role := range rbac.DefaultRolePermissions() {
		componentJSON, err := json.Marshal(role.ComponentAccess)
		if err != nil {
			return err
		}
		featureJSON, err := json.Marshal(role.FeatureAccess)
		if err != nil {
			return err
		}

		_, err = pool.Exec(ctx, `
      INSERT INTO role_permissions (role_id, display_name, hierarchy_level, description, component_access, feature_access, is_active, is_system_role)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
      ON CONFLICT (role_id) DO NOTHING
    `, role.RoleID, role.DisplayName, role.HierarchyLevel, role.Description,
			componentJSON, featureJSON, role.IsActive, role.IsSystemRole)
		if err != nil {
			return fmt.Errorf("seeding role %s: %w", role.RoleID, err)
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var exists bool
	err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		cfg.SeedAdminUsername, cfg.SeedAdminEmail).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, email, password_hash, first_name, role)
    VALUES ($1, $2, $3, 'Admin', $4)
  `, cfg.SeedAdminUsername, cfg.SeedAdminEmail, hash, rbac.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	return nil
}
