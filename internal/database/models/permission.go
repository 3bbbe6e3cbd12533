package models

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/dbretry"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// PermissionModel handles database operations for user and role permission grants.
type PermissionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPermission creates a new PermissionModel instance.
func NewPermission(db *bun.DB, logger *zap.Logger) *PermissionModel {
	return &PermissionModel{
		db:     db,
		logger: logger.Named("db_permission"),
	}
}

// UserGrants returns the permission names granted directly to a user in a guild.
func (m *PermissionModel) UserGrants(ctx context.Context, guildID, userID uint64) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var names []string
		err := m.db.NewSelect().
			Model((*types.UserPermission)(nil)).
			Column("permission").
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Scan(ctx, &names)
		if err != nil {
			return nil, fmt.Errorf("failed to get user permissions: %w", err)
		}

		return names, nil
	})
}

// RoleGrants returns the permission names granted to any of the given roles in a guild.
func (m *PermissionModel) RoleGrants(ctx context.Context, guildID uint64, roleIDs []uint64) ([]string, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var names []string
		err := m.db.NewSelect().
			Model((*types.RolePermission)(nil)).
			Distinct().
			Column("permission").
			Where("guild_id = ?", guildID).
			Where("role_id IN (?)", bun.In(roleIDs)).
			Scan(ctx, &names)
		if err != nil {
			return nil, fmt.Errorf("failed to get role permissions: %w", err)
		}

		return names, nil
	})
}

// GrantUser grants a permission to a user. Granting twice is a no-op.
func (m *PermissionModel) GrantUser(ctx context.Context, grant *types.UserPermission) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(grant).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to grant user permission: %w", err)
		}
		return nil
	})
}

// GrantRole grants a permission to a role. Granting twice is a no-op.
func (m *PermissionModel) GrantRole(ctx context.Context, grant *types.RolePermission) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(grant).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to grant role permission: %w", err)
		}
		return nil
	})
}

// RevokeUser removes a user grant.
func (m *PermissionModel) RevokeUser(ctx context.Context, grant *types.UserPermission) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewDelete().
			Model(grant).
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to revoke user permission: %w", err)
		}
		return nil
	})
}

// RevokeRole removes a role grant.
func (m *PermissionModel) RevokeRole(ctx context.Context, grant *types.RolePermission) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewDelete().
			Model(grant).
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to revoke role permission: %w", err)
		}
		return nil
	})
}
