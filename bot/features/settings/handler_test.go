package settings

import (
	"testing"

	"guildledger/bot/common"
	"guildledger/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func option(name string, typ discordgo.ApplicationCommandOptionType, value any) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: typ, Value: value}
}

func TestBuildUpdate_Empty(t *testing.T) {
	update, err := buildUpdate(common.NewOptions(nil))
	require.NoError(t, err)
	assert.True(t, update.IsEmpty())
}

func TestBuildUpdate_AllFields(t *testing.T) {
	opts := common.NewOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		option("enabled", discordgo.ApplicationCommandOptionBoolean, false),
		option("currency", discordgo.ApplicationCommandOptionString, "💎"),
		option("min_bet", discordgo.ApplicationCommandOptionInteger, float64(5)),
		option("max_bet", discordgo.ApplicationCommandOptionInteger, float64(1000)),
		option("house_edge", discordgo.ApplicationCommandOptionNumber, 2.5),
		option("daily", discordgo.ApplicationCommandOptionInteger, float64(250)),
		option("payout_mode", discordgo.ApplicationCommandOptionString, "net"),
		option("channel", discordgo.ApplicationCommandOptionChannel, "555"),
		option("banker_role", discordgo.ApplicationCommandOptionRole, "777"),
	})

	update, err := buildUpdate(opts)
	require.NoError(t, err)

	require.NotNil(t, update.GamblingEnabled)
	assert.False(t, *update.GamblingEnabled)
	assert.Equal(t, "💎", *update.Currency)
	assert.Equal(t, int64(5), *update.MinBet)
	assert.Equal(t, int64(1000), *update.MaxBet)
	assert.Equal(t, 2.5, *update.HouseEdge)
	assert.Equal(t, int64(250), *update.DailyAmount)
	assert.Equal(t, entities.PayoutModeNet, *update.PayoutMode)
	assert.Equal(t, int64(555), *update.GamblingChannelID)
	assert.Equal(t, int64(777), *update.BankerRoleID)
	assert.False(t, update.ClearChannel)
}

func TestBuildUpdate_ClearFlags(t *testing.T) {
	opts := common.NewOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		option("clear_channel", discordgo.ApplicationCommandOptionBoolean, true),
		option("clear_banker_role", discordgo.ApplicationCommandOptionBoolean, true),
	})

	update, err := buildUpdate(opts)
	require.NoError(t, err)
	assert.True(t, update.ClearChannel)
	assert.True(t, update.ClearBankerRole)
	assert.Nil(t, update.GamblingChannelID)
}
