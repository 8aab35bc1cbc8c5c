package services

import (
	"context"
	"testing"
	"time"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDailyEnv(t *testing.T, gs *entities.GuildSettings) (*serviceEnv, *dailyService) {
	env := newServiceEnv(t).withSettings(gs).withExposure(testUserID, 0)
	svc := NewDailyService(testGuildID, env.ledger, env.settings, env.daily, env.publisher, entities.DailyClaimCooldown).(*dailyService)
	return env, svc
}

func TestDailyService_Claim_FirstTime(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	env, svc := newDailyEnv(t, nil)

	env.accounts.On("LockBalance", ctx, testUserID).Return(int64(0), nil)
	env.daily.On("Get", ctx, testUserID).Return(nil, nil)
	env.accounts.On("ApplyDelta", ctx, testUserID, int64(500)).Return(int64(500), nil)
	env.history.On("Append", ctx, mock.MatchedBy(func(h *entities.HistoryEntry) bool {
		return h.Game == entities.TransactionTypeDaily && h.Delta == 500
	})).Return(nil)
	env.daily.On("Record", ctx, testUserID, now).Return(nil)

	amount, balance, err := svc.Claim(ctx, player(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(500), amount)
	assert.Equal(t, int64(500), balance)

	env.assertExpectations(t)
	env.publisher.AssertCalled(t, "Publish", events.DailyClaimedEvent{GuildID: testGuildID, UserID: testUserID, Amount: 500})
}

func TestDailyService_Claim_Cooldown(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	env, svc := newDailyEnv(t, nil)

	env.accounts.On("LockBalance", ctx, testUserID).Return(int64(500), nil)
	env.daily.On("Get", ctx, testUserID).Return(&entities.DailyClaim{
		UserID:      testUserID,
		LastClaimAt: now.Add(-20 * time.Hour),
	}, nil)

	_, _, err := svc.Claim(ctx, player(), now)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.ReasonDailyCooldown, appErr.Reason)
	assert.Equal(t, 3*time.Hour+30*time.Minute, appErr.RetryAfter)
	env.accounts.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestDailyService_Claim_AfterCooldown(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	env, svc := newDailyEnv(t, nil)

	env.accounts.On("LockBalance", ctx, testUserID).Return(int64(500), nil)
	env.daily.On("Get", ctx, testUserID).Return(&entities.DailyClaim{
		UserID:      testUserID,
		LastClaimAt: now.Add(-entities.DailyClaimCooldown),
	}, nil)
	env.accounts.On("ApplyDelta", ctx, testUserID, int64(500)).Return(int64(1000), nil)
	env.history.On("Append", ctx, mock.Anything).Return(nil)
	env.daily.On("Record", ctx, testUserID, now).Return(nil)

	_, balance, err := svc.Claim(ctx, player(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
}

func TestDailyService_Claim_Rejections(t *testing.T) {
	ctx := context.Background()
	disabled := false
	zero := int64(0)
	channel := int64(777)

	tests := []struct {
		name     string
		settings *entities.GuildSettings
		reason   apperr.Reason
	}{
		{"wrong channel", &entities.GuildSettings{GamblingChannelID: &channel}, apperr.ReasonWrongChannel},
		{"gambling disabled", &entities.GuildSettings{GamblingEnabled: &disabled}, apperr.ReasonGamblingDisabled},
		{"daily turned off", &entities.GuildSettings{DailyAmount: &zero}, apperr.ReasonInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, svc := newDailyEnv(t, tt.settings)

			_, _, err := svc.Claim(ctx, player(), time.Now())

			assert.Equal(t, tt.reason, apperr.ReasonOf(err))
			env.daily.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
