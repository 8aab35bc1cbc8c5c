package instant

import (
	"guildledger/application"

	"github.com/bwmarrin/discordgo"
)

// Feature plays the single-shot wagers: coinflip, dice, slots, roulette and guess
type Feature struct {
	wagers application.Wagers
}

func New(wagers application.Wagers) *Feature {
	return &Feature{wagers: wagers}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePlay(s, i)
}
