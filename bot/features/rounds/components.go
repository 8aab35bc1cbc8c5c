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

// ButtonID encodes an action on a round as a component custom ID
func ButtonID(action games.Action, roundID string) string {
	return fmt.Sprintf("%s%s_%s", common.RoundButtonPrefix, action, roundID)
}

// ParseButtonID splits a custom ID made by ButtonID
func ParseButtonID(customID string) (games.Action, string, bool) {
	rest, ok := strings.CutPrefix(customID, common.RoundButtonPrefix)
	if !ok {
		return "", "", false
	}
	action, roundID, ok := strings.Cut(rest, "_")
	if !ok || action == "" || roundID == "" {
		return "", "", false
	}
	return games.Action(action), roundID, true
}

func button(label string, style discordgo.ButtonStyle, action games.Action, roundID string) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: ButtonID(action, roundID),
	}
}

// RoundComponents returns the action buttons of a live round, or nil once it is over
func RoundComponents(round dto.RoundDTO) []discordgo.MessageComponent {
	if round.Settled || round.Phase.IsTerminal() {
		return nil
	}

	var buttons []discordgo.MessageComponent
	switch round.Game {
	case entities.TransactionTypeBlackjack:
		double := button("Double", discordgo.SecondaryButton, games.ActionDouble, round.ID)
		double.Disabled = !round.CanDouble
		buttons = []discordgo.MessageComponent{
			button("Hit", discordgo.PrimaryButton, games.ActionHit, round.ID),
			button("Stand", discordgo.SuccessButton, games.ActionStand, round.ID),
			double,
		}
	case entities.TransactionTypeHiLo:
		buttons = []discordgo.MessageComponent{
			button("Higher", discordgo.PrimaryButton, games.ActionHigher, round.ID),
			button("Lower", discordgo.PrimaryButton, games.ActionLower, round.ID),
		}
	case entities.TransactionTypeCrash:
		buttons = []discordgo.MessageComponent{
			button("Cash out", discordgo.SuccessButton, games.ActionCashOut, round.ID),
		}
	default:
		return nil
	}

	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}
