package enum

import (
	"errors"
	"fmt"
)

// ErrInvalidPermission indicates a permission name that is not recognized.
var ErrInvalidPermission = errors.New("invalid permission")

// Permission is a capability that can be granted to users and roles inside a guild.
// Its string form is the dotted name stored in grants.
//
//go:generate go tool enumer -type=Permission -trimprefix=Permission -linecomment
type Permission int

const (
	PermissionPermissionsView               Permission = iota // permissions.view
	PermissionPermissionsEdit                                 // permissions.edit
	PermissionLoggingEdit                                     // logging.edit
	PermissionModerationEdit                                  // moderation.edit
	PermissionBoardsEdit                                      // boards.edit
	PermissionModerationStrike                                // moderation.strike
	PermissionModerationSearchSelf                            // moderation.search.self
	PermissionModerationSearchSelfExpired                     // moderation.search.self.expired
	PermissionModerationSearchOthers                          // moderation.search.others
	PermissionModerationSearchOthersExpired                   // moderation.search.others.expired
	PermissionModerationSearchUUID                            // moderation.search.uuid
	PermissionModerationMute                                  // moderation.mute
	PermissionModerationUnmute                                // moderation.unmute
	PermissionModerationKick                                  // moderation.kick
	PermissionModerationBan                                   // moderation.ban
	PermissionModerationUnban                                 // moderation.unban
	PermissionModerationExpire                                // moderation.expire
	PermissionModerationRemove                                // moderation.remove
	PermissionModerationDuration                              // moderation.duration
	PermissionModerationReason                                // moderation.reason
	PermissionGiveawayCreate                                  // giveaway.create
	PermissionGiveawayEnd                                     // giveaway.end
	PermissionGiveawayReroll                                  // giveaway.reroll
	PermissionGiveawayDelete                                  // giveaway.delete
)

// ParsePermission parses a dotted permission name, rejecting unknown names with ErrInvalidPermission.
func ParsePermission(name string) (Permission, error) {
	p, err := PermissionString(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPermission, err)
	}
	return p, nil
}
