package leaderboard

import (
	"guildledger/application"

	"github.com/bwmarrin/discordgo"
)

// Feature posts the guild's richest members as a scoreboard image
type Feature struct {
	ledger    application.Ledger
	generator *ImageGenerator
}

func New(ledger application.Ledger) *Feature {
	return &Feature{
		ledger:    ledger,
		generator: NewImageGenerator(),
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLeaderboard(s, i)
}
