package transfer

import (
	"context"
	"fmt"

	"guildledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// recipient reads the required user option, resolving it so bots can be refused
func recipient(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, *discordgo.User, bool) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	id := opts.SnowflakeID("user")
	if id == "" {
		common.RespondWithError(s, i, "Please choose a member.")
		return 0, nil, false
	}
	userID, err := common.ParseID(id)
	if err != nil {
		log.Errorf("Error parsing recipient Discord ID %s: %v", id, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, nil, false
	}
	return userID, common.ResolvedUser(i, id), true
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	toID, toUser, ok := recipient(s, i)
	if !ok {
		return
	}
	amount := common.NewOptions(i.ApplicationCommandData().Options).Int("amount", 0)

	result, err := f.economy.Give(ctx, actor, toID, toUser.Bot, amount)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": actor.GuildID,
		"from":     actor.UserID,
		"to":       toID,
		"amount":   result.Amount,
	}).Info("Transfer completed")

	common.RespondWithContent(s, i, fmt.Sprintf("✅ Transferred %s to %s (their balance: %s, yours: %s)",
		common.FormatAmount(result.Amount, result.Currency),
		common.GetUserMention(toID),
		common.FormatAmount(result.RecipientBalance, result.Currency),
		common.FormatAmount(result.SenderBalance, result.Currency)), false)
}

func (f *Feature) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	toID, _, ok := recipient(s, i)
	if !ok {
		return
	}
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	amount := opts.Int("amount", 0)
	reason := opts.String("reason", "")

	result, err := f.economy.Grant(ctx, actor, toID, amount, reason)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	message := fmt.Sprintf("🏦 Granted %s to %s. Their balance: %s",
		common.FormatAmount(result.Amount, result.Currency),
		common.GetUserMention(toID),
		common.FormatAmount(result.Balance, result.Currency))
	if reason != "" {
		message += "\nReason: " + reason
	}
	common.RespondWithContent(s, i, message, false)
}
