package stats

import (
	"fmt"
	"strings"

	"guildledger/application/dto"
	"guildledger/bot/common"
	"guildledger/domain/utils"

	"github.com/bwmarrin/discordgo"
)

const recentShown = 5

// buildStatsEmbed renders a member's wager totals and latest ledger entries
func buildStatsEmbed(displayName string, stats *dto.StatsDTO) *discordgo.MessageEmbed {
	record := stats.Stats
	currency := stats.Currency

	color := common.ColorInfo
	switch {
	case record.Net() > 0:
		color = common.ColorSuccess
	case record.Net() < 0:
		color = common.ColorDanger
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Stats for %s", displayName),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bets", Value: utils.FormatThousands(record.Bets), Inline: true},
			{Name: "Won", Value: utils.FormatCurrency(record.Won, currency), Inline: true},
			{Name: "Lost", Value: utils.FormatCurrency(record.Lost, currency), Inline: true},
			{Name: "Net", Value: common.FormatSigned(record.Net(), currency), Inline: true},
			{Name: "Biggest win", Value: utils.FormatCurrency(record.BiggestWin, currency), Inline: true},
		},
	}

	if len(stats.Recent) > 0 {
		n := min(len(stats.Recent), recentShown)
		lines := make([]string, 0, n)
		for _, entry := range stats.Recent[:n] {
			lines = append(lines, fmt.Sprintf("%s %s %s → %s",
				common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
				common.GameTitle(entry.Game),
				common.FormatSigned(entry.Delta, currency),
				utils.FormatCurrency(entry.BalanceAfter, currency)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Recent activity",
			Value: strings.Join(lines, "\n"),
		})
	}

	return embed
}
