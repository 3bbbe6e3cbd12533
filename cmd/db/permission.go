package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var ErrInvalidGrantKind = errors.New("grant target must be user or role")

// permissionCommand grants and revokes permissions without going through the bot.
func permissionCommand(deps *toolDeps) *cli.Command {
	return &cli.Command{
		Name:  "permission",
		Usage: "Manage user and role permission grants",
		Commands: []*cli.Command{
			{
				Name:      "grant",
				Usage:     "Grant PERMISSION to a user or role",
				ArgsUsage: "GUILD_ID user|role ID PERMISSION",
				Action: func(ctx context.Context, c *cli.Command) error {
					return changeGrant(ctx, deps, c, true)
				},
			},
			{
				Name:      "revoke",
				Usage:     "Revoke PERMISSION from a user or role",
				ArgsUsage: "GUILD_ID user|role ID PERMISSION",
				Action: func(ctx context.Context, c *cli.Command) error {
					return changeGrant(ctx, deps, c, false)
				},
			},
			{
				Name:  "names",
				Usage: "List every permission name",
				Action: func(_ context.Context, _ *cli.Command) error {
					for _, name := range enum.PermissionStrings() {
						deps.logger.Info("Permission", zap.String("name", name))
					}
					return nil
				},
			},
		},
	}
}

func changeGrant(ctx context.Context, deps *toolDeps, c *cli.Command, grant bool) error {
	if c.Args().Len() != 4 {
		return fmt.Errorf("%w: GUILD_ID, target kind, ID and PERMISSION are required", ErrArgsRequired)
	}

	guildID, err := parseGuildID(c.Args().Get(0))
	if err != nil {
		return err
	}

	targetID, err := strconv.ParseUint(c.Args().Get(2), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid target ID %q: %w", c.Args().Get(2), err)
	}

	permissions := deps.db.Service().Permission()
	name := c.Args().Get(3)

	switch kind := c.Args().Get(1); {
	case kind == "user" && grant:
		return permissions.GrantUser(ctx, guildID, targetID, name)
	case kind == "user":
		return permissions.RevokeUser(ctx, guildID, targetID, name)
	case kind == "role" && grant:
		return permissions.GrantRole(ctx, guildID, targetID, name)
	case kind == "role":
		return permissions.RevokeRole(ctx, guildID, targetID, name)
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidGrantKind, kind)
	}
}
