package services

import (
	"context"
	"testing"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWagerEnv(t *testing.T, gs *entities.GuildSettings) (*serviceEnv, *wagerService) {
	env := newServiceEnv(t).withSettings(gs)
	svc := NewWagerService(testGuildID, env.ledger, env.settings, env.stats, env.publisher).(*wagerService)
	return env, svc
}

// newSettleEnv leaves the settings repository unprimed; settling never reads it
func newSettleEnv(t *testing.T) (*serviceEnv, *wagerService) {
	env := newServiceEnv(t)
	svc := NewWagerService(testGuildID, env.ledger, env.settings, env.stats, env.publisher).(*wagerService)
	return env, svc
}

func TestWagerService_CheckStake(t *testing.T) {
	ctx := context.Background()
	disabled := false
	channel := int64(777)

	tests := []struct {
		name     string
		settings *entities.GuildSettings
		bet      int64
		balance  int64
		exposure int64
		reason   apperr.Reason
	}{
		{"accepts", nil, 100, 1000, 0, ""},
		{"wrong channel wins over disabled", &entities.GuildSettings{GamblingEnabled: &disabled, GamblingChannelID: &channel}, 100, 1000, 0, apperr.ReasonWrongChannel},
		{"disabled wins over limits", &entities.GuildSettings{GamblingEnabled: &disabled}, 5, 1000, 0, apperr.ReasonGamblingDisabled},
		{"below minimum", nil, 5, 1000, 0, apperr.ReasonBetBelowMin},
		{"above maximum", nil, 50001, 100000, 0, apperr.ReasonBetAboveMax},
		{"insufficient balance", nil, 100, 50, 0, apperr.ReasonInsufficientBalance},
		{"open rounds hold stake", nil, 100, 150, 60, apperr.ReasonInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, svc := newWagerEnv(t, tt.settings)
			env.accounts.On("LockBalance", ctx, testUserID).Return(tt.balance, nil).Maybe()
			env.exposure.On("Exposure", testGuildID, testUserID).Return(tt.exposure).Maybe()

			eff, err := svc.CheckStake(ctx, player(), tt.bet)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, testGuildID, eff.GuildID)
				return
			}
			assert.Equal(t, tt.reason, apperr.ReasonOf(err))
			env.accounts.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestWagerService_Settle_CoinflipWin(t *testing.T) {
	ctx := context.Background()
	env, svc := newSettleEnv(t)

	stake := games.Stake{Bet: 100, Edge: 0.02, Mode: entities.PayoutModeGross}
	outcome, err := games.Play(stake, games.InstantBet{Game: entities.TransactionTypeCoinflip, Choice: "heads"},
		games.NewScriptedRNG([]int{0}))
	require.NoError(t, err)
	require.Equal(t, int64(198), outcome.Delta)

	env.accounts.On("ApplyDelta", ctx, testUserID, int64(198)).Return(int64(1198), nil)
	env.history.On("Append", ctx, mock.MatchedBy(func(h *entities.HistoryEntry) bool {
		return h.Game == entities.TransactionTypeCoinflip && h.Bet == 100 && h.Delta == 198 &&
			h.BalanceAfter == 1198 && h.Metadata["result"] == "win"
	})).Return(nil)
	env.stats.On("RecordWager", ctx, testUserID, int64(198)).Return(nil)

	balance, err := svc.Settle(ctx, testUserID, outcome, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1198), balance)

	env.assertExpectations(t)
	env.settingsRepo.AssertNotCalled(t, "Get", mock.Anything)
	env.publisher.AssertCalled(t, "Publish", events.WagerSettledEvent{
		GuildID: testGuildID,
		UserID:  testUserID,
		Game:    entities.TransactionTypeCoinflip,
		Bet:     100,
		Delta:   198,
		Result:  "win",
	})
}

func TestWagerService_Settle_PushStillLogged(t *testing.T) {
	ctx := context.Background()
	env, svc := newSettleEnv(t)

	outcome := games.Outcome{Game: entities.TransactionTypeBlackjack, Bet: 100, Result: games.ResultPush}

	env.accounts.On("ApplyDelta", ctx, testUserID, int64(0)).Return(int64(1000), nil)
	env.history.On("Append", ctx, mock.MatchedBy(func(h *entities.HistoryEntry) bool {
		return h.Delta == 0 && h.Bet == 100 && h.Metadata["round_id"] == "round-1"
	})).Return(nil)
	env.stats.On("RecordWager", ctx, testUserID, int64(0)).Return(nil)

	balance, err := svc.Settle(ctx, testUserID, outcome, "round-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
	env.assertExpectations(t)
}
