package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// ErrInvalidGrantTarget indicates a grant for guild, user or role ID zero.
var ErrInvalidGrantTarget = errors.New("invalid grant target")

// PermissionStore persists user and role permission grants.
type PermissionStore interface {
	GrantUser(ctx context.Context, grant *types.UserPermission) error
	GrantRole(ctx context.Context, grant *types.RolePermission) error
	RevokeUser(ctx context.Context, grant *types.UserPermission) error
	RevokeRole(ctx context.Context, grant *types.RolePermission) error
}

// PermissionService manages permission grants.
// Only names known to enum.Permission are stored.
type PermissionService struct {
	store  PermissionStore
	logger *zap.Logger
}

// NewPermission creates a new permission service.
func NewPermission(store PermissionStore, logger *zap.Logger) *PermissionService {
	return &PermissionService{
		store:  store,
		logger: logger.Named("permission_service"),
	}
}

// GrantUser grants a permission to a single member of a guild.
func (s *PermissionService) GrantUser(ctx context.Context, guildID, userID uint64, name string) error {
	grant, err := userGrant(guildID, userID, name)
	if err != nil {
		return err
	}
	if err := s.store.GrantUser(ctx, grant); err != nil {
		return err
	}

	s.logger.Info("Granted user permission",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.String("permission", grant.Permission))
	return nil
}

// GrantRole grants a permission to every holder of a role.
func (s *PermissionService) GrantRole(ctx context.Context, guildID, roleID uint64, name string) error {
	grant, err := roleGrant(guildID, roleID, name)
	if err != nil {
		return err
	}
	if err := s.store.GrantRole(ctx, grant); err != nil {
		return err
	}

	s.logger.Info("Granted role permission",
		zap.Uint64("guildID", guildID),
		zap.Uint64("roleID", roleID),
		zap.String("permission", grant.Permission))
	return nil
}

// RevokeUser removes a user grant. Revoking a grant that does not exist is a no-op.
func (s *PermissionService) RevokeUser(ctx context.Context, guildID, userID uint64, name string) error {
	grant, err := userGrant(guildID, userID, name)
	if err != nil {
		return err
	}
	if err := s.store.RevokeUser(ctx, grant); err != nil {
		return err
	}

	s.logger.Info("Revoked user permission",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.String("permission", grant.Permission))
	return nil
}

// RevokeRole removes a role grant. Revoking a grant that does not exist is a no-op.
func (s *PermissionService) RevokeRole(ctx context.Context, guildID, roleID uint64, name string) error {
	grant, err := roleGrant(guildID, roleID, name)
	if err != nil {
		return err
	}
	if err := s.store.RevokeRole(ctx, grant); err != nil {
		return err
	}

	s.logger.Info("Revoked role permission",
		zap.Uint64("guildID", guildID),
		zap.Uint64("roleID", roleID),
		zap.String("permission", grant.Permission))
	return nil
}

func userGrant(guildID, userID uint64, name string) (*types.UserPermission, error) {
	permission, err := checkGrant(guildID, userID, name)
	if err != nil {
		return nil, err
	}
	return &types.UserPermission{GuildID: guildID, UserID: userID, Permission: permission.String()}, nil
}

func roleGrant(guildID, roleID uint64, name string) (*types.RolePermission, error) {
	permission, err := checkGrant(guildID, roleID, name)
	if err != nil {
		return nil, err
	}
	return &types.RolePermission{GuildID: guildID, RoleID: roleID, Permission: permission.String()}, nil
}

func checkGrant(guildID, targetID uint64, name string) (enum.Permission, error) {
	if guildID == 0 || targetID == 0 {
		return 0, fmt.Errorf("%w: guild %d, target %d", ErrInvalidGrantTarget, guildID, targetID)
	}
	return enum.ParsePermission(name)
}
