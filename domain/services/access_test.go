package services

import (
	"testing"

	"guildledger/config"
	"guildledger/domain/apperr"
	"guildledger/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestCheckChannel(t *testing.T) {
	settings := DefaultSettings(config.NewTestConfig())
	actor := player()

	assert.NoError(t, CheckChannel(settings, actor), "unrestricted guild accepts any channel")

	settings.GamblingChannelID = 777
	err := CheckChannel(settings, actor)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, apperr.ReasonWrongChannel, apperr.ReasonOf(err))
	assert.Contains(t, err.Error(), "<#777>")

	actor.ChannelID = 777
	assert.NoError(t, CheckChannel(settings, actor))
}

func TestValidateBetLimits(t *testing.T) {
	settings := DefaultSettings(config.NewTestConfig())

	tests := []struct {
		name   string
		bet    int64
		reason apperr.Reason
	}{
		{"below minimum", 5, apperr.ReasonBetBelowMin},
		{"at minimum", 10, ""},
		{"at maximum", 50000, ""},
		{"above maximum", 50001, apperr.ReasonBetAboveMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBetLimits(settings, tt.bet)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.reason, apperr.ReasonOf(err))
		})
	}
}

func TestIsBanker(t *testing.T) {
	settings := DefaultSettings(config.NewTestConfig())
	actor := player()

	assert.False(t, IsBanker(settings, actor))
	assert.True(t, IsBanker(settings, admin()))

	actor.RoleIDs = []int64{testBankerRID}
	assert.False(t, IsBanker(settings, actor), "role only counts once configured")

	settings.BankerRoleID = testBankerRID
	assert.True(t, IsBanker(settings, actor))

	err := RequireBanker(settings, player())
	assert.Equal(t, apperr.ReasonNotBanker, apperr.ReasonOf(err))
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(admin()))

	banker := entities.Actor{UserID: testUserID, RoleIDs: []int64{testBankerRID}}
	err := RequireAdmin(banker)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, apperr.ReasonNotAdmin, apperr.ReasonOf(err))
}
