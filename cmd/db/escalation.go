package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// escalationCommand edits strike escalation rules without going through the bot.
func escalationCommand(deps *toolDeps) *cli.Command {
	return &cli.Command{
		Name:  "escalation",
		Usage: "Manage strike escalation rules",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List the escalation rules of a guild",
				ArgsUsage: "GUILD_ID",
				Action: func(ctx context.Context, c *cli.Command) error {
					guildID, err := parseGuildID(c.Args().First())
					if err != nil {
						return err
					}

					rules, err := deps.db.Service().Escalation().List(ctx, guildID)
					if err != nil {
						return err
					}

					if len(rules) == 0 {
						deps.logger.Info("No escalation rules", zap.Uint64("guildID", guildID))
						return nil
					}

					for _, rule := range rules {
						deps.logger.Info("Escalation rule",
							zap.Uint64("guildID", guildID),
							zap.Int("strikes", rule.StrikeCount),
							zap.String("kind", rule.Kind.String()),
							zap.String("duration", rule.DurationText()))
					}
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "Issue KIND when a user reaches STRIKES active strikes",
				ArgsUsage: "GUILD_ID STRIKES KIND [DURATION]",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() < 3 {
						return fmt.Errorf("%w: GUILD_ID, STRIKES and KIND are required", ErrArgsRequired)
					}

					guildID, err := parseGuildID(c.Args().Get(0))
					if err != nil {
						return err
					}

					strikes, err := strconv.Atoi(c.Args().Get(1))
					if err != nil {
						return fmt.Errorf("%w: %w", types.ErrInvalidEscalation, err)
					}

					kind, err := enum.ActionKindString(c.Args().Get(2))
					if err != nil {
						return err
					}

					rule := &types.EscalationRule{
						GuildID:     guildID,
						StrikeCount: strikes,
						Kind:        kind,
					}
					if text := c.Args().Get(3); text != "" {
						rule.Duration = &text
					}

					if err := deps.db.Service().Escalation().Set(ctx, rule); err != nil {
						return err
					}

					deps.logger.Info("Escalation rule set",
						zap.Uint64("guildID", guildID),
						zap.Int("strikes", strikes),
						zap.String("kind", kind.String()),
						zap.String("duration", rule.DurationText()))
					return nil
				},
			},
			{
				Name:      "clear",
				Usage:     "Remove the rule for a strike count",
				ArgsUsage: "GUILD_ID STRIKES",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("%w: GUILD_ID and STRIKES are required", ErrArgsRequired)
					}

					guildID, err := parseGuildID(c.Args().Get(0))
					if err != nil {
						return err
					}

					strikes, err := strconv.Atoi(c.Args().Get(1))
					if err != nil {
						return fmt.Errorf("%w: %w", types.ErrInvalidEscalation, err)
					}

					cleared, err := deps.db.Service().Escalation().Clear(ctx, guildID, strikes)
					if err != nil {
						return err
					}

					deps.logger.Info("Escalation rule cleared",
						zap.Uint64("guildID", guildID),
						zap.Int("strikes", strikes),
						zap.Bool("existed", cleared))
					return nil
				},
			},
		},
	}
}

func parseGuildID(text string) (uint64, error) {
	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGuildID, text)
	}
	return id, nil
}
