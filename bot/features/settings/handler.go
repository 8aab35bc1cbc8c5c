package settings

import (
	"context"
	"fmt"

	"guildledger/bot/common"
	"guildledger/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// buildUpdate maps the supplied options onto a partial settings update
func buildUpdate(opts common.Options) (entities.SettingsUpdate, error) {
	var update entities.SettingsUpdate

	if v, ok := opts.Bool("enabled"); ok {
		update.GamblingEnabled = &v
	}
	if opts.Has("currency") {
		v := opts.String("currency", "")
		update.Currency = &v
	}
	if opts.Has("min_bet") {
		v := opts.Int("min_bet", 0)
		update.MinBet = &v
	}
	if opts.Has("max_bet") {
		v := opts.Int("max_bet", 0)
		update.MaxBet = &v
	}
	if v, ok := opts.Float("house_edge"); ok {
		update.HouseEdge = &v
	}
	if opts.Has("daily") {
		v := opts.Int("daily", 0)
		update.DailyAmount = &v
	}
	if opts.Has("payout_mode") {
		v := entities.PayoutMode(opts.String("payout_mode", ""))
		update.PayoutMode = &v
	}

	if id := opts.SnowflakeID("channel"); id != "" {
		channelID, err := common.ParseID(id)
		if err != nil {
			return update, fmt.Errorf("invalid channel id %q: %w", id, err)
		}
		update.GamblingChannelID = &channelID
	}
	if v, _ := opts.Bool("clear_channel"); v {
		update.ClearChannel = true
	}

	if id := opts.SnowflakeID("banker_role"); id != "" {
		roleID, err := common.ParseID(id)
		if err != nil {
			return update, fmt.Errorf("invalid role id %q: %w", id, err)
		}
		update.BankerRoleID = &roleID
	}
	if v, _ := opts.Bool("clear_banker_role"); v {
		update.ClearBankerRole = true
	}

	return update, nil
}

// handleSettings handles the /gambling_settings command
func (f *Feature) handleSettings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	update, err := buildUpdate(common.NewOptions(i.ApplicationCommandData().Options))
	if err != nil {
		log.Errorf("Failed to read settings options: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	eff, err := f.settings.Update(ctx, actor, update)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if !update.IsEmpty() {
		log.WithFields(log.Fields{
			"guild_id": actor.GuildID,
			"user_id":  actor.UserID,
		}).Info("Guild settings updated")
	}
	common.RespondWithContent(s, i, common.FormatSettingsSummary(eff), true)
}

// handleReset handles the /reset_economy command
func (f *Feature) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if confirm, _ := common.NewOptions(i.ApplicationCommandData().Options).Bool("confirm"); !confirm {
		common.RespondWithError(s, i, "Set confirm to true to zero every balance in this server.")
		return
	}

	changed, err := f.economy.ResetGuild(ctx, actor)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithContent(s, i, fmt.Sprintf("🧹 Economy reset. %d balances were zeroed.", changed), false)
}
