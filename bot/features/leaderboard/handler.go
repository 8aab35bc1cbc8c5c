package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"guildledger/application/dto"
	"guildledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const imageName = "leaderboard.png"

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	board, err := f.ledger.Leaderboard(ctx, actor)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	embed := &discordgo.MessageEmbed{Title: "Leaderboard", Color: common.ColorGold}
	if len(board.Entries) == 0 {
		embed.Description = "_No balances yet_"
		if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
			log.Errorf("Error responding to leaderboard command: %v", err)
		}
		return
	}

	// Name lookups and rendering can outlast the interaction deadline
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring leaderboard response: %v", err)
		return
	}

	rows := make([]Row, len(board.Entries))
	for n, entry := range board.Entries {
		rows[n] = Row{
			Rank:    entry.Rank,
			Name:    common.GetDisplayNameInt64(s, i.GuildID, entry.UserID),
			Balance: entry.Balance,
		}
	}
	embed.Description = textBoard(board)

	png, err := f.generator.Generate(rows)
	if err != nil {
		log.WithError(err).Warn("Failed to render leaderboard image, sending text only")
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Embeds: &[]*discordgo.MessageEmbed{embed},
		}); err != nil {
			log.Errorf("Error sending leaderboard: %v", err)
		}
		return
	}

	if err := common.FollowUpWithImage(s, i, embed, imageName, png); err != nil {
		log.Errorf("Error sending leaderboard image: %v", err)
	}
}

// textBoard lists the entries with mentions so they stay clickable under the image
func textBoard(board *dto.LeaderboardDTO) string {
	lines := make([]string, 0, len(board.Entries))
	for _, entry := range board.Entries {
		lines = append(lines, fmt.Sprintf("**%d.** %s %s", entry.Rank,
			common.GetUserMention(entry.UserID), common.FormatAmount(entry.Balance, board.Currency)))
	}
	return strings.Join(lines, "\n")
}
