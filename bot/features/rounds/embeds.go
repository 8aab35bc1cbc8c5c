package rounds

import (
	"fmt"
	"strings"

	"guildledger/application/dto"
	"guildledger/bot/common"
	"guildledger/domain/entities"
	"guildledger/domain/games"

	"github.com/bwmarrin/discordgo"
)

func roundIcon(game entities.TransactionType) string {
	switch game {
	case entities.TransactionTypeBlackjack:
		return "🃏"
	case entities.TransactionTypeHiLo:
		return "🔼"
	case entities.TransactionTypeCrash:
		return "🚀"
	}
	return "🎲"
}

func roundColor(round dto.RoundDTO) int {
	if !round.Settled || round.Outcome == nil {
		return common.ColorPrimary
	}
	switch round.Outcome.Result {
	case games.ResultWin:
		return common.ColorSuccess
	case games.ResultPush:
		return common.ColorWarning
	default:
		return common.ColorDanger
	}
}

// RoundEmbed renders the current state of a live or finished round
func RoundEmbed(round dto.RoundDTO) *discordgo.MessageEmbed {
	lines := []string{
		fmt.Sprintf("<@%d> bet %s", round.UserID, common.FormatAmount(round.Bet, round.Currency)),
		"",
	}

	switch round.Game {
	case entities.TransactionTypeBlackjack:
		lines = append(lines,
			fmt.Sprintf("Your hand: %s (**%d**)", strings.Join(round.PlayerCards, " "), round.PlayerTotal),
			fmt.Sprintf("Dealer: %s (**%d**)", strings.Join(round.DealerCards, " "), round.DealerTotal),
		)
	case entities.TransactionTypeHiLo:
		lines = append(lines, fmt.Sprintf("Base card: **%s**", round.BaseCard))
		if round.NextCard != "" {
			lines = append(lines, fmt.Sprintf("Next card: **%s**", round.NextCard))
		} else if !round.Settled {
			lines = append(lines, "Will the next card be higher or lower?")
		}
	case entities.TransactionTypeCrash:
		lines = append(lines, fmt.Sprintf("Multiplier: **%.2f×**", round.Multiplier))
		switch round.Phase {
		case games.PhaseBusted:
			lines = append(lines, fmt.Sprintf("💥 Crashed at **%.2f×**", round.BustPoint))
		case games.PhaseCashed:
			lines = append(lines, fmt.Sprintf("Cashed out before the crash at %.2f×", round.BustPoint))
		default:
			lines = append(lines, fmt.Sprintf("Cash out any time from %.2f×", games.CrashMinCashOut))
		}
	}

	if round.Settled && round.Outcome != nil {
		lines = append(lines, "")
		if round.Expired {
			lines = append(lines, "⏰ The round timed out.")
		}
		lines = append(lines, common.FormatResultLine(*round.Outcome, round.Balance, round.Currency))
	}

	return &discordgo.MessageEmbed{
		Title:       roundIcon(round.Game) + " " + common.GameTitle(round.Game),
		Description: strings.Join(lines, "\n"),
		Color:       roundColor(round),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Round " + shortID(round.ID)},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
