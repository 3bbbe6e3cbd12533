// Package permission resolves which bot permissions a guild member holds.
package permission

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"go.uber.org/zap"
)

// Store loads raw permission grants.
type Store interface {
	UserGrants(ctx context.Context, guildID, userID uint64) ([]string, error)
	RoleGrants(ctx context.Context, guildID uint64, roleIDs []uint64) ([]string, error)
}

// Actor describes the member whose permissions are resolved.
type Actor struct {
	GuildID         uint64
	UserID          uint64
	RoleIDs         []uint64
	IsOwner         bool // Owns the guild
	IsAdministrator bool // Holds a role with the Discord administrator permission
}

// Set is a resolved set of permissions.
type Set map[enum.Permission]struct{}

// All returns a set holding every permission.
func All() Set {
	set := make(Set)
	for _, p := range enum.PermissionValues() {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether p is in the set.
func (s Set) Has(p enum.Permission) bool {
	_, ok := s[p]
	return ok
}

// Missing returns the permissions from required that the set lacks, in the given order.
func (s Set) Missing(required ...enum.Permission) []enum.Permission {
	var missing []enum.Permission
	for _, p := range required {
		if !s.Has(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// Resolver computes permission sets from stored grants.
type Resolver struct {
	store  Store
	logger *zap.Logger
}

// NewResolver creates a new permission resolver.
func NewResolver(store Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger.Named("permission"),
	}
}

// Resolve returns the permissions an actor holds.
// Guild owners and administrators hold everything. Everyone else holds the union of
// their own grants and the grants of their roles. Grants are only additive.
func (r *Resolver) Resolve(ctx context.Context, actor Actor) (Set, error) {
	if actor.IsOwner || actor.IsAdministrator {
		return All(), nil
	}

	userGrants, err := r.store.UserGrants(ctx, actor.GuildID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user permissions: %w", err)
	}

	roleGrants, err := r.store.RoleGrants(ctx, actor.GuildID, actor.RoleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	set := make(Set)
	for _, names := range [][]string{userGrants, roleGrants} {
		for _, name := range names {
			p, err := enum.PermissionString(name)
			if err != nil {
				r.logger.Warn("Skipping unknown stored permission",
					zap.Uint64("guildID", actor.GuildID),
					zap.String("permission", name))
				continue
			}
			set[p] = struct{}{}
		}
	}

	return set, nil
}
