package balance

import (
	"guildledger/application"

	"github.com/bwmarrin/discordgo"
)

// Feature answers balance lookups and daily claims
type Feature struct {
	ledger  application.Ledger
	economy application.Economy
}

func New(ledger application.Ledger, economy application.Economy) *Feature {
	return &Feature{
		ledger:  ledger,
		economy: economy,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "daily":
		f.handleDaily(s, i)
	default:
		f.handleBalance(s, i)
	}
}
