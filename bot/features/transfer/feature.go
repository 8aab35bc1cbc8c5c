package transfer

import (
	"guildledger/application"

	"github.com/bwmarrin/discordgo"
)

// Feature moves currency between members and lets bankers mint it
type Feature struct {
	economy application.Economy
}

func New(economy application.Economy) *Feature {
	return &Feature{economy: economy}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "grant":
		f.handleGrant(s, i)
	default:
		f.handleGive(s, i)
	}
}
