package services

import (
	"context"
	"errors"
	"testing"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_Apply_RecordsHistoryAndEvent(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	env.accounts.On("ApplyDelta", ctx, testUserID, int64(250)).Return(int64(1250), nil)
	env.history.On("Append", ctx, mock.MatchedBy(func(h *entities.HistoryEntry) bool {
		return h.GuildID == testGuildID &&
			h.UserID == testUserID &&
			h.Game == entities.TransactionTypeGrant &&
			h.Delta == 250 &&
			h.BalanceAfter == 1250
	})).Return(nil)
	env.publisher.ExpectedCalls = nil
	env.publisher.On("Publish", events.BalanceChangeEvent{
		GuildID:         testGuildID,
		UserID:          testUserID,
		OldBalance:      1000,
		NewBalance:      1250,
		ChangeAmount:    250,
		TransactionType: entities.TransactionTypeGrant,
	}).Return(nil)

	balance, err := env.ledger.Apply(ctx, testUserID, 250, entities.LedgerChange{Type: entities.TransactionTypeGrant})
	require.NoError(t, err)
	assert.Equal(t, int64(1250), balance)

	env.assertExpectations(t)
	env.publisher.AssertExpectations(t)
}

func TestLedgerService_Apply_HistoryFailure(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	env.accounts.On("ApplyDelta", ctx, testUserID, int64(-10)).Return(int64(90), nil)
	env.history.On("Append", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err := env.ledger.Apply(ctx, testUserID, -10, entities.LedgerChange{Type: entities.TransactionTypeDice})
	assert.ErrorContains(t, err, "disk full")
}

func TestLedgerService_Available_SubtractsExposure(t *testing.T) {
	env := newServiceEnv(t).withExposure(testUserID, 300)
	ctx := context.Background()

	env.accounts.On("LockBalance", ctx, testUserID).Return(int64(1000), nil)

	available, err := env.ledger.Available(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), available)
}

func TestLedgerService_Leaderboard_Ranks(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	env.accounts.On("TopBalances", ctx, LeaderboardSize).Return([]*entities.Account{
		{UserID: 3, Balance: 900},
		{UserID: 1, Balance: 500},
	}, nil)

	board, err := env.ledger.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []entities.LeaderboardEntry{
		{Rank: 1, UserID: 3, Balance: 900},
		{Rank: 2, UserID: 1, Balance: 500},
	}, board)
}

func TestLedgerService_History_ClampsLimit(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	env.history.On("ListByUser", ctx, testUserID, entities.MaxHistoryEntries).Return([]*entities.HistoryEntry{}, nil)

	_, err := env.ledger.History(ctx, testUserID, 5000)
	require.NoError(t, err)
	env.assertExpectations(t)
}

func TestLedgerService_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("requires admin", func(t *testing.T) {
		env := newServiceEnv(t)
		_, err := env.ledger.Reset(ctx, player())
		assert.Equal(t, apperr.ReasonNotAdmin, apperr.ReasonOf(err))
		env.accounts.AssertNotCalled(t, "ResetAll", mock.Anything)
	})

	t.Run("logs non-zero accounts", func(t *testing.T) {
		env := newServiceEnv(t)
		env.accounts.On("ResetAll", ctx).Return([]*entities.Account{
			{UserID: 1, Balance: 500},
			{UserID: 2, Balance: 0},
			{UserID: 3, Balance: -40},
		}, nil)
		env.history.On("Append", ctx, mock.MatchedBy(func(h *entities.HistoryEntry) bool {
			return h.Game == entities.TransactionTypeReset && h.BalanceAfter == 0 && h.Delta != 0
		})).Return(nil).Twice()

		changed, err := env.ledger.Reset(ctx, admin())
		require.NoError(t, err)
		assert.Equal(t, 2, changed)
		env.assertExpectations(t)
	})
}
