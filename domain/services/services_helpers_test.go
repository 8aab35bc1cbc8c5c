package services

import (
	"testing"

	"guildledger/config"
	"guildledger/domain/entities"
	"guildledger/domain/interfaces"
	"guildledger/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

const (
	testGuildID   = int64(555555555)
	testChannelID = int64(987654321)
	testUserID    = int64(100)
	testOtherID   = int64(200)
	testBankerRID = int64(4242)
)

// serviceEnv wires real services over repository mocks
type serviceEnv struct {
	accounts     *testhelpers.MockAccountRepository
	settingsRepo *testhelpers.MockGuildSettingsRepository
	stats        *testhelpers.MockStatsRepository
	history      *testhelpers.MockHistoryRepository
	daily        *testhelpers.MockDailyClaimRepository
	codes        *testhelpers.MockRedeemCodeRepository
	publisher    *testhelpers.MockEventPublisher
	exposure     *testhelpers.MockExposureTracker

	settings interfaces.SettingsService
	ledger   interfaces.LedgerService
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	env := &serviceEnv{
		accounts:     new(testhelpers.MockAccountRepository),
		settingsRepo: new(testhelpers.MockGuildSettingsRepository),
		stats:        new(testhelpers.MockStatsRepository),
		history:      new(testhelpers.MockHistoryRepository),
		daily:        new(testhelpers.MockDailyClaimRepository),
		codes:        new(testhelpers.MockRedeemCodeRepository),
		publisher:    new(testhelpers.MockEventPublisher),
		exposure:     new(testhelpers.MockExposureTracker),
	}
	env.settings = NewSettingsService(testGuildID, env.settingsRepo, DefaultSettings(config.Get()))
	env.ledger = NewLedgerService(testGuildID, env.accounts, env.history, env.stats, env.publisher, env.exposure)

	env.publisher.On("Publish", mock.Anything).Return(nil).Maybe()
	return env
}

// withSettings makes the guild's override row return the given settings
func (e *serviceEnv) withSettings(gs *entities.GuildSettings) *serviceEnv {
	e.settingsRepo.On("Get", mock.Anything).Return(gs, nil)
	return e
}

func (e *serviceEnv) withExposure(userID, amount int64) *serviceEnv {
	e.exposure.On("Exposure", testGuildID, userID).Return(amount)
	return e
}

func (e *serviceEnv) assertExpectations(t *testing.T) {
	e.accounts.AssertExpectations(t)
	e.settingsRepo.AssertExpectations(t)
	e.stats.AssertExpectations(t)
	e.history.AssertExpectations(t)
	e.daily.AssertExpectations(t)
	e.codes.AssertExpectations(t)
}

func player() entities.Actor {
	return entities.Actor{GuildID: testGuildID, UserID: testUserID, ChannelID: testChannelID}
}

func admin() entities.Actor {
	a := player()
	a.CanManageGuild = true
	return a
}
