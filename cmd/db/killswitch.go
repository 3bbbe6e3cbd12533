package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// killSwitchCommand manages the global feature, guild and user kill switches.
func killSwitchCommand(deps *toolDeps) *cli.Command {
	return &cli.Command{
		Name:  "killswitch",
		Usage: "Manage global kill switches",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Disable a feature, guild or user",
				ArgsUsage: "SCOPE TARGET [REASON...]",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() < 2 {
						return fmt.Errorf("%w: SCOPE and TARGET are required", ErrArgsRequired)
					}

					scope, err := enum.KillSwitchScopeString(c.Args().Get(0))
					if err != nil {
						return err
					}

					ks := &types.KillSwitch{
						Scope:     scope,
						Target:    c.Args().Get(1),
						Reason:    strings.Join(c.Args().Slice()[2:], " "),
						CreatedAt: time.Now(),
					}
					if err := deps.db.Service().Config().SetKillSwitch(ctx, ks); err != nil {
						return err
					}

					deps.logger.Info("Kill switch set",
						zap.String("scope", scope.String()),
						zap.String("target", ks.Target),
						zap.String("reason", ks.Reason))
					return nil
				},
			},
			{
				Name:      "clear",
				Usage:     "Re-enable a feature, guild or user",
				ArgsUsage: "SCOPE TARGET",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("%w: SCOPE and TARGET are required", ErrArgsRequired)
					}

					scope, err := enum.KillSwitchScopeString(c.Args().Get(0))
					if err != nil {
						return err
					}

					cleared, err := deps.db.Service().Config().ClearKillSwitch(ctx, scope, c.Args().Get(1))
					if err != nil {
						return err
					}

					if !cleared {
						deps.logger.Info("Kill switch was not set",
							zap.String("scope", scope.String()),
							zap.String("target", c.Args().Get(1)))
						return nil
					}

					deps.logger.Info("Kill switch cleared",
						zap.String("scope", scope.String()),
						zap.String("target", c.Args().Get(1)))
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List active kill switches",
				Action: func(ctx context.Context, _ *cli.Command) error {
					switches, err := deps.db.Service().Config().ListKillSwitches(ctx)
					if err != nil {
						return err
					}

					if len(switches) == 0 {
						deps.logger.Info("No kill switches are set")
						return nil
					}

					for _, ks := range switches {
						deps.logger.Info("Kill switch",
							zap.String("scope", ks.Scope.String()),
							zap.String("target", ks.Target),
							zap.String("reason", ks.Reason),
							zap.Time("createdAt", ks.CreatedAt))
					}
					return nil
				},
			},
		},
	}
}
