package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Action)(nil),
			(*types.EscalationRule)(nil),
			(*types.ModerationConfig)(nil),
			(*types.LoggingConfig)(nil),
			(*types.UserPermission)(nil),
			(*types.RolePermission)(nil),
			(*types.KillSwitch)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		_, err := db.NewRaw(`
			ALTER TABLE actions DROP CONSTRAINT IF EXISTS actions_kind_check;
			ALTER TABLE actions ADD CONSTRAINT actions_kind_check
			CHECK (kind IN ('strike', 'mute', 'kick', 'ban'));

			ALTER TABLE strike_escalations DROP CONSTRAINT IF EXISTS strike_escalations_kind_check;
			ALTER TABLE strike_escalations ADD CONSTRAINT strike_escalations_kind_check
			CHECK (kind IN ('mute', 'kick', 'ban') AND strike_count > 0);

			ALTER TABLE kill_switches DROP CONSTRAINT IF EXISTS kill_switches_scope_check;
			ALTER TABLE kill_switches ADD CONSTRAINT kill_switches_scope_check
			CHECK (scope IN ('feature', 'guild', 'user'));
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add check constraints: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		// Down migration - drop all tables
		models := []any{
			(*types.KillSwitch)(nil),
			(*types.RolePermission)(nil),
			(*types.UserPermission)(nil),
			(*types.LoggingConfig)(nil),
			(*types.ModerationConfig)(nil),
			(*types.EscalationRule)(nil),
			(*types.Action)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Cascade().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
