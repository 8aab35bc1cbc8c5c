package balance

import (
	"context"
	"fmt"

	"guildledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	targetID := actor.UserID
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	if id := opts.SnowflakeID("user"); id != "" {
		if targetID, err = common.ParseID(id); err != nil {
			log.Errorf("Error parsing user option %s: %v", id, err)
			common.RespondWithError(s, i, "Unable to process request. Please try again.")
			return
		}
	}

	bal, err := f.ledger.Balance(ctx, actor.GuildID, targetID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	who := "Your"
	if targetID != actor.UserID {
		who = common.GetUserMention(targetID) + "'s"
	}
	message := fmt.Sprintf("%s balance: %s", who, common.FormatAmount(bal.Balance, bal.Currency))
	if bal.Available != bal.Balance {
		message += fmt.Sprintf(" (%s available, the rest is riding on a live round)",
			common.FormatAmount(bal.Available, bal.Currency))
	}
	common.RespondWithContent(s, i, message, true)
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.economy.ClaimDaily(ctx, actor)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithContent(s, i, fmt.Sprintf("💰 You claimed %s. Balance: %s",
		common.FormatAmount(result.Amount, result.Currency),
		common.FormatAmount(result.Balance, result.Currency)), true)
}
