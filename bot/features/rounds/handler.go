package rounds

import (
	"context"
	"fmt"

	"guildledger/application/dto"
	"guildledger/bot/common"
	"guildledger/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) start(ctx context.Context, game string, actor entities.Actor, bet int64) (*dto.RoundDTO, error) {
	switch entities.TransactionType(game) {
	case entities.TransactionTypeBlackjack:
		return f.rounds.StartBlackjack(ctx, actor, bet)
	case entities.TransactionTypeHiLo:
		return f.rounds.StartHiLo(ctx, actor, bet)
	case entities.TransactionTypeCrash:
		return f.rounds.StartCrash(ctx, actor, bet)
	}
	return nil, fmt.Errorf("unknown round command %q", game)
}

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	data := i.ApplicationCommandData()
	bet := common.NewOptions(data.Options).Int("bet", 0)

	round, err := f.start(ctx, data.Name, actor, bet)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	// Track before responding so a crash tick racing the reply still finds the message
	if !round.Settled {
		f.track(round.ID, i.Interaction)
	}
	if err := common.RespondWithEmbed(s, i, RoundEmbed(*round), RoundComponents(*round), false); err != nil {
		log.WithField("round_id", round.ID).WithError(err).Error("Failed to send round message")
	}
}

func (f *Feature) handleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	action, roundID, ok := ParseButtonID(i.MessageComponentData().CustomID)
	if !ok {
		common.RespondWithError(s, i, "Unknown button.")
		return
	}

	actor, err := common.ActorFromInteraction(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	round, err := f.rounds.Act(ctx, actor, roundID, action)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if round.Settled {
		f.forget(round.ID)
	}
	if err := common.UpdateComponentMessage(s, i, RoundEmbed(*round), RoundComponents(*round)); err != nil {
		log.WithField("round_id", round.ID).WithError(err).Error("Failed to update round message")
	}
}
