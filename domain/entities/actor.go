package entities

import "slices"

// Actor identifies who invoked an operation and from where
type Actor struct {
	GuildID        int64
	UserID         int64
	ChannelID      int64
	RoleIDs        []int64
	CanManageGuild bool // Holds the Manage Server permission
}

// HasRole reports whether the actor carries the given role
func (a Actor) HasRole(roleID int64) bool {
	return roleID != 0 && slices.Contains(a.RoleIDs, roleID)
}
