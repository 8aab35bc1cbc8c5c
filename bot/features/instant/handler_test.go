package instant

import (
	"testing"

	"guildledger/bot/common"
	"guildledger/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intOpt(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v),
	}
}

func strOpt(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v,
	}
}

func TestWagerRequest(t *testing.T) {
	tests := []struct {
		command string
		opts    []*discordgo.ApplicationCommandInteractionDataOption
		choice  string
		rng     int
	}{
		{"coinflip", []*discordgo.ApplicationCommandInteractionDataOption{intOpt("bet", 100), strOpt("side", "heads")}, "heads", 0},
		{"dice", []*discordgo.ApplicationCommandInteractionDataOption{intOpt("bet", 100), strOpt("pick", "low")}, "low", 0},
		{"slots", []*discordgo.ApplicationCommandInteractionDataOption{intOpt("bet", 100)}, "", 0},
		{"roulette", []*discordgo.ApplicationCommandInteractionDataOption{intOpt("bet", 100), strOpt("pick", "17")}, "17", 0},
		{"guess", []*discordgo.ApplicationCommandInteractionDataOption{intOpt("bet", 100), intOpt("range", 5), intOpt("number", 3)}, "3", 5},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			req, err := wagerRequest(tt.command, common.NewOptions(tt.opts))
			require.NoError(t, err)
			assert.Equal(t, entities.TransactionType(tt.command), req.Game)
			assert.Equal(t, int64(100), req.Bet)
			assert.Equal(t, tt.choice, req.Choice)
			assert.Equal(t, tt.rng, req.Range)
		})
	}
}

func TestWagerRequest_UnknownGame(t *testing.T) {
	_, err := wagerRequest("poker", common.NewOptions(nil))
	assert.Error(t, err)
}
