package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"guildledger/application"
	"guildledger/bot/common"
	"guildledger/bot/features/balance"
	"guildledger/bot/features/codes"
	"guildledger/bot/features/instant"
	"guildledger/bot/features/leaderboard"
	"guildledger/bot/features/rounds"
	"guildledger/bot/features/settings"
	"guildledger/bot/features/stats"
	"guildledger/bot/features/transfer"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // Register commands to this guild only; empty registers globally
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session
	core    *application.Core

	// Feature modules
	balance     *balance.Feature
	transfer    *transfer.Feature
	instant     *instant.Feature
	rounds      *rounds.Feature
	codes       *codes.Feature
	stats       *stats.Feature
	leaderboard *leaderboard.Feature
	settings    *settings.Feature
}

// New connects to Discord, registers commands and starts routing interactions to the core
func New(config Config, core *application.Core) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:  config,
		session: dg,
		core:    core,
	}

	bot.balance = balance.New(core.Ledger, core.Economy)
	bot.transfer = transfer.New(core.Economy)
	bot.instant = instant.New(core.Wagers)
	bot.rounds = rounds.New(dg, core.Rounds)
	bot.codes = codes.New(core.Codes)
	bot.stats = stats.NewFeature(core.Ledger)
	bot.leaderboard = leaderboard.New(core.Ledger)
	bot.settings = settings.NewFeature(core.Settings, core.Economy)

	// Crash ticks and timeouts happen without an interaction; the rounds feature redraws them
	core.Rounds.Observe(bot.rounds)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleGuildCreate)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	switch name {
	case "balance", "daily":
		b.balance.HandleCommand(s, i)
	case "give", "grant":
		b.transfer.HandleCommand(s, i)
	case "coinflip", "dice", "slots", "roulette", "guess":
		b.instant.HandleCommand(s, i)
	case "blackjack", "hilo", "crash":
		b.rounds.HandleCommand(s, i)
	case "redeem", "code":
		b.codes.HandleCommand(s, i)
	case "stats":
		b.stats.HandleCommand(s, i)
	case "leaderboard":
		b.leaderboard.HandleCommand(s, i)
	case "gambling_settings", "reset_economy":
		b.settings.HandleCommand(s, i)
	default:
		log.WithField("command", name).Warn("Unknown command")
		common.RespondWithError(s, i, "Unknown command.")
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, common.RoundButtonPrefix):
		b.rounds.HandleInteraction(s, i)
	default:
		log.WithField("custom_id", customID).Debug("Unrouted component interaction")
	}
}

// handleGuildCreate logs each guild the bot serves with its effective economy settings
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()

	guildID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	eff, err := b.core.Settings.Effective(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to load settings for guild %s (%s): %v", g.Name, g.ID, err)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":         guildID,
		"guild_name":       g.Name,
		"gambling_enabled": eff.GamblingEnabled,
		"currency":         eff.Currency,
	}).Info("Serving guild")
}
