package bot

import (
	"fmt"

	"guildledger/bot/common"
	"guildledger/domain/games"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

var (
	manageGuild  int64 = discordgo.PermissionManageGuild
	guildContext       = []discordgo.InteractionContextType{discordgo.InteractionContextGuild}
)

func betOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "bet",
		Description: "Amount to wager",
		Required:    true,
		MinValue:    floatPtr(1),
	}
}

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func codeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "code",
		Description: "The redeem code",
		Required:    true,
		MinLength:   intPtr(3),
		MaxLength:   32,
	}
}

func stringChoices(values ...string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(values))
	for i, v := range values {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v}
	}
	return choices
}

func guessRangeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(games.GuessRanges))
	for i, n := range games.GuessRanges {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: fmt.Sprintf("1-%d", n), Value: n}
	}
	return choices
}

func codeEditOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		codeOption(),
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "New amount per redemption", MinValue: floatPtr(1), MaxValue: common.MaxGrantAmount},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_uses", Description: "New total number of redemptions", MinValue: floatPtr(1), MaxValue: common.MaxCodeUses},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "expires_in_hours", Description: "Expire this many hours from now", MinValue: floatPtr(1)},
		{Type: discordgo.ApplicationCommandOptionBoolean, Name: "clear_expiry", Description: "Never expire"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "note", Description: "Note shown to bankers", MaxLength: 200},
		{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable or disable the code"},
	}
}

// commandDefinitions lists every slash command the bot serves
func commandDefinitions() []*discordgo.ApplicationCommand {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your balance or another member's",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to look up", false)},
		},
		{
			Name:        "daily",
			Description: "Claim your daily allowance",
		},
		{
			Name:        "give",
			Description: "Give some of your balance to another member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to give to", true),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount to give", Required: true, MinValue: floatPtr(1)},
			},
		},
		{
			Name:        "grant",
			Description: "Credit a member from the bank (bankers only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to credit", true),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount to grant", Required: true, MinValue: floatPtr(1), MaxValue: common.MaxGrantAmount},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why the grant was made", MaxLength: 200},
			},
		},
		{
			Name:        "coinflip",
			Description: "Flip a coin",
			Options: []*discordgo.ApplicationCommandOption{
				betOption(),
				{Type: discordgo.ApplicationCommandOptionString, Name: "side", Description: "Heads or tails", Required: true, Choices: stringChoices("heads", "tails")},
			},
		},
		{
			Name:        "dice",
			Description: "Roll two dice: high is 8-12, low is 2-6",
			Options: []*discordgo.ApplicationCommandOption{
				betOption(),
				{Type: discordgo.ApplicationCommandOptionString, Name: "pick", Description: "High or low", Required: true, Choices: stringChoices("high", "low")},
			},
		},
		{
			Name:        "slots",
			Description: "Spin the slot machine",
			Options:     []*discordgo.ApplicationCommandOption{betOption()},
		},
		{
			Name:        "roulette",
			Description: "Bet on a colour or a single number",
			Options: []*discordgo.ApplicationCommandOption{
				betOption(),
				{Type: discordgo.ApplicationCommandOptionString, Name: "pick", Description: "red, black, green or a number 0-36", Required: true, MaxLength: 5},
			},
		},
		{
			Name:        "guess",
			Description: "Guess the number",
			Options: []*discordgo.ApplicationCommandOption{
				betOption(),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "range", Description: "How many numbers to pick from", Required: true, Choices: guessRangeChoices()},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "number", Description: "Your guess", Required: true, MinValue: floatPtr(1), MaxValue: 10},
			},
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack against the dealer",
			Options:     []*discordgo.ApplicationCommandOption{betOption()},
		},
		{
			Name:        "hilo",
			Description: "Guess whether the next card is higher or lower",
			Options:     []*discordgo.ApplicationCommandOption{betOption()},
		},
		{
			Name:        "crash",
			Description: "Cash out before the multiplier crashes",
			Options:     []*discordgo.ApplicationCommandOption{betOption()},
		},
		{
			Name:        "redeem",
			Description: "Redeem a code",
			Options:     []*discordgo.ApplicationCommandOption{codeOption()},
		},
		{
			Name:        "code",
			Description: "Manage redeem codes (bankers only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a redeem code",
					Options: []*discordgo.ApplicationCommandOption{
						codeOption(),
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount per redemption", Required: true, MinValue: floatPtr(1), MaxValue: common.MaxGrantAmount},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_uses", Description: "Total number of redemptions (default 1)", MinValue: floatPtr(1), MaxValue: common.MaxCodeUses},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "expires_in_hours", Description: "Expire this many hours from now", MinValue: floatPtr(1)},
						{Type: discordgo.ApplicationCommandOptionString, Name: "note", Description: "Note shown to bankers", MaxLength: 200},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Change a redeem code",
					Options:     codeEditOptions(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a redeem code",
					Options:     []*discordgo.ApplicationCommandOption{codeOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Stop a redeem code from being claimed",
					Options:     []*discordgo.ApplicationCommandOption{codeOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List this server's redeem codes",
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest members",
		},
		{
			Name:        "stats",
			Description: "Show wager stats",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to look up", false)},
		},
		{
			Name:                     "gambling_settings",
			Description:              "View or change gambling settings",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Allow wagers and daily claims"},
				{Type: discordgo.ApplicationCommandOptionString, Name: "currency", Description: "Currency symbol", MaxLength: 16},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "min_bet", Description: "Smallest allowed bet", MinValue: floatPtr(1)},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_bet", Description: "Largest allowed bet", MinValue: floatPtr(1)},
				{Type: discordgo.ApplicationCommandOptionNumber, Name: "house_edge", Description: "House edge as a fraction (0.02) or percent (2)", MinValue: floatPtr(0), MaxValue: 50},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "daily", Description: "Daily allowance (0 disables it)", MinValue: floatPtr(0)},
				{Type: discordgo.ApplicationCommandOptionString, Name: "payout_mode", Description: "How wins are credited", Choices: stringChoices("gross", "net")},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Confine gambling to this channel", ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText}},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "clear_channel", Description: "Allow gambling in any channel"},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "banker_role", Description: "Role allowed to grant and manage codes"},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "clear_banker_role", Description: "Only Manage Server can bank"},
			},
		},
		{
			Name:                     "reset_economy",
			Description:              "Zero every balance in this server",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "confirm", Description: "Set to true to confirm", Required: true},
			},
		},
	}

	for _, cmd := range commands {
		cmd.Contexts = &guildContext
	}
	return commands
}

// registerCommands replaces the application's slash commands in one call.
// An empty guild ID registers them globally.
func (b *Bot) registerCommands() error {
	commands := commandDefinitions()
	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	log.WithFields(log.Fields{
		"count":    len(registered),
		"guild_id": b.config.GuildID,
	}).Info("Slash commands registered")
	return nil
}
