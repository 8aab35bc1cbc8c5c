package common

import (
	"fmt"
	"strconv"

	"guildledger/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			if member.User.GlobalName != "" {
				return member.User.GlobalName
			}
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// GetDisplayNameInt64 is a convenience wrapper that accepts int64 user IDs
func GetDisplayNameInt64(s *discordgo.Session, guildID string, userID int64) string {
	return GetDisplayName(s, guildID, FormatID(userID))
}

// ParseID converts a Discord snowflake string to int64
func ParseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatID converts an int64 snowflake to its string form
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID int64) string {
	return "<@" + FormatID(userID) + ">"
}

// InteractionUser returns whoever triggered the interaction, in a guild or a DM
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// ActorFromInteraction describes the invoking member for the ledger core.
// Commands are guild-only, so an interaction without a member is rejected.
func ActorFromInteraction(i *discordgo.InteractionCreate) (entities.Actor, error) {
	if i.Member == nil || i.Member.User == nil || i.GuildID == "" {
		return entities.Actor{}, fmt.Errorf("interaction %s was not sent from a guild", i.ID)
	}

	guildID, err := ParseID(i.GuildID)
	if err != nil {
		return entities.Actor{}, fmt.Errorf("invalid guild id %q: %w", i.GuildID, err)
	}
	userID, err := ParseID(i.Member.User.ID)
	if err != nil {
		return entities.Actor{}, fmt.Errorf("invalid user id %q: %w", i.Member.User.ID, err)
	}
	// The channel only matters for confinement; a malformed one simply never matches
	channelID, _ := ParseID(i.ChannelID)

	roles := make([]int64, 0, len(i.Member.Roles))
	for _, r := range i.Member.Roles {
		if id, err := ParseID(r); err == nil {
			roles = append(roles, id)
		}
	}

	perms := i.Member.Permissions
	return entities.Actor{
		GuildID:        guildID,
		UserID:         userID,
		ChannelID:      channelID,
		RoleIDs:        roles,
		CanManageGuild: perms&discordgo.PermissionAdministrator != 0 || perms&discordgo.PermissionManageGuild != 0,
	}, nil
}
