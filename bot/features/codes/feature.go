package codes

import (
	"guildledger/application"

	"github.com/bwmarrin/discordgo"
)

// Feature handles /redeem and the banker-only /code administration
type Feature struct {
	codes application.Codes
}

func New(codes application.Codes) *Feature {
	return &Feature{codes: codes}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name == "redeem" {
		f.handleRedeem(s, i)
		return
	}

	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "create":
		f.handleCreate(s, i, sub.Options)
	case "edit":
		f.handleEdit(s, i, sub.Options)
	case "delete":
		f.handleDelete(s, i, sub.Options)
	case "disable":
		f.handleDisable(s, i, sub.Options)
	case "list":
		f.handleList(s, i)
	}
}
