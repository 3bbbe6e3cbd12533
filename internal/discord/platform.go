package discord

import (
	"context"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Platform applies moderation effects through the Discord REST API.
type Platform struct {
	rest   RestClient
	logger *zap.Logger
}

// NewPlatform creates a new Platform.
func NewPlatform(client RestClient, logger *zap.Logger) *Platform {
	return &Platform{
		rest:   client,
		logger: logger.Named("discord_platform"),
	}
}

// Ban bans a user without deleting their message history.
func (p *Platform) Ban(ctx context.Context, guildID, userID uint64, reason string) error {
	return p.rest.AddBan(snowflake.ID(guildID), snowflake.ID(userID), 0, requestOpts(ctx, reason)...)
}

// Unban lifts a ban.
func (p *Platform) Unban(ctx context.Context, guildID, userID uint64, reason string) error {
	return p.rest.DeleteBan(snowflake.ID(guildID), snowflake.ID(userID), requestOpts(ctx, reason)...)
}

// Kick removes a member from the guild.
func (p *Platform) Kick(ctx context.Context, guildID, userID uint64, reason string) error {
	return p.rest.RemoveMember(snowflake.ID(guildID), snowflake.ID(userID), requestOpts(ctx, reason)...)
}

// GrantRole adds a role to a member.
func (p *Platform) GrantRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error {
	return p.rest.AddMemberRole(
		snowflake.ID(guildID), snowflake.ID(userID), snowflake.ID(roleID), requestOpts(ctx, reason)...,
	)
}

// RevokeRole removes a role from a member.
func (p *Platform) RevokeRole(ctx context.Context, guildID, userID, roleID uint64, reason string) error {
	return p.rest.RemoveMemberRole(
		snowflake.ID(guildID), snowflake.ID(userID), snowflake.ID(roleID), requestOpts(ctx, reason)...,
	)
}

// auditReasonLimit is the longest audit log reason Discord accepts.
const auditReasonLimit = 512

func requestOpts(ctx context.Context, reason string) []rest.RequestOpt {
	opts := []rest.RequestOpt{rest.WithCtx(ctx)}
	if reason != "" {
		if runes := []rune(reason); len(runes) > auditReasonLimit {
			reason = string(runes[:auditReasonLimit])
		}
		opts = append(opts, rest.WithReason(reason))
	}
	return opts
}
