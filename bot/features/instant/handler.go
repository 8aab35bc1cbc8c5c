package instant

import (
	"context"
	"fmt"
	"strconv"

	"guildledger/application/dto"
	"guildledger/bot/common"
	"guildledger/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// wagerRequest translates a game command's options into a wager request
func wagerRequest(command string, opts common.Options) (dto.InstantWagerDTO, error) {
	req := dto.InstantWagerDTO{
		Game: entities.TransactionType(command),
		Bet:  opts.Int("bet", 0),
	}

	switch req.Game {
	case entities.TransactionTypeCoinflip:
		req.Choice = opts.String("side", "")
	case entities.TransactionTypeDice:
		req.Choice = opts.String("pick", "")
	case entities.TransactionTypeSlots:
	case entities.TransactionTypeRoulette:
		req.Choice = opts.String("pick", "")
	case entities.TransactionTypeGuess:
		req.Range = int(opts.Int("range", 0))
		req.Choice = strconv.FormatInt(opts.Int("number", 0), 10)
	default:
		return req, fmt.Errorf("unknown game command %q", command)
	}
	return req, nil
}

func (f *Feature) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	data := i.ApplicationCommandData()
	req, err := wagerRequest(data.Name, common.NewOptions(data.Options))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.wagers.PlayInstant(ctx, actor, req)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithContent(s, i, common.FormatOutcome(result.Outcome, result.Balance, result.Currency), true)
}
