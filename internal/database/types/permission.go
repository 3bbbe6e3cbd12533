package types

import (
	"github.com/uptrace/bun"
)

// UserPermission grants a permission to a single user in a guild.
type UserPermission struct {
	bun.BaseModel `bun:"table:user_permissions,alias:up"`

	GuildID    uint64 `bun:",pk"`
	UserID     uint64 `bun:",pk"`
	Permission string `bun:",pk,type:text"`
}

// RolePermission grants a permission to every member holding a role.
type RolePermission struct {
	bun.BaseModel `bun:"table:role_permissions,alias:rp"`

	GuildID    uint64 `bun:",pk"`
	RoleID     uint64 `bun:",pk"`
	Permission string `bun:",pk,type:text"`
}
