package stats

import (
	"context"

	"guildledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	targetID := actor.UserID
	if id := common.NewOptions(i.ApplicationCommandData().Options).SnowflakeID("user"); id != "" {
		if targetID, err = common.ParseID(id); err != nil {
			log.Errorf("Error parsing user option %s: %v", id, err)
			common.RespondWithError(s, i, "Unable to process request. Please try again.")
			return
		}
	}

	stats, err := f.ledger.Stats(ctx, actor.GuildID, targetID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	name := common.GetDisplayNameInt64(s, i.GuildID, targetID)
	if err := common.RespondWithEmbed(s, i, buildStatsEmbed(name, stats), nil, true); err != nil {
		log.Errorf("Error responding to stats command: %v", err)
	}
}
