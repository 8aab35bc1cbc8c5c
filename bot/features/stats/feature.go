package stats

import (
	"guildledger/application"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the stats feature
type Feature struct {
	ledger application.Ledger
}

// NewFeature creates a new stats feature instance
func NewFeature(ledger application.Ledger) *Feature {
	return &Feature{ledger: ledger}
}

// HandleCommand handles the /stats command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleStats(s, i)
}
