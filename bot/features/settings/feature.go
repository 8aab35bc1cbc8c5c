package settings

import (
	"guildledger/application"

	"github.com/bwmarrin/discordgo"
)

// Feature handles guild settings management and the economy reset
type Feature struct {
	settings application.Settings
	economy  application.Economy
}

// NewFeature creates a new settings feature instance
func NewFeature(settings application.Settings, economy application.Economy) *Feature {
	return &Feature{
		settings: settings,
		economy:  economy,
	}
}

// HandleCommand routes settings commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "reset_economy":
		f.handleReset(s, i)
	default:
		f.handleSettings(s, i)
	}
}
