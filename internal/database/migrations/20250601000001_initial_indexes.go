package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Strike counting and unban/unmute lookups
			CREATE INDEX IF NOT EXISTS idx_actions_member_kind
			ON actions (guild_id, user_id, kind)
			WHERE active;

			-- History listings
			CREATE INDEX IF NOT EXISTS idx_actions_member_created
			ON actions (guild_id, user_id, created_at DESC);

			-- Sweeper scan of due actions
			CREATE INDEX IF NOT EXISTS idx_actions_due
			ON actions (expiry ASC)
			WHERE active AND expiry IS NOT NULL;

			-- Latest action of a moderator for corrections
			CREATE INDEX IF NOT EXISTS idx_actions_moderator_created
			ON actions (guild_id, moderator_id, created_at DESC);

			-- Role grant lookups by role set
			CREATE INDEX IF NOT EXISTS idx_role_permissions_role
			ON role_permissions (guild_id, role_id);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_role_permissions_role;
			DROP INDEX IF EXISTS idx_actions_moderator_created;
			DROP INDEX IF EXISTS idx_actions_due;
			DROP INDEX IF EXISTS idx_actions_member_created;
			DROP INDEX IF EXISTS idx_actions_member_kind;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
