package application

import (
	"context"
	"testing"
	"time"

	"guildledger/application/dto"
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/events"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func player() entities.Actor {
	return entities.Actor{GuildID: testGuildID, UserID: testUserID, ChannelID: testChannelID}
}

func TestPlayInstant_CoinflipExample(t *testing.T) {
	env := newTestEnv(t, games.NewScriptedRNG([]int{0}), nil)
	repos := env.repos

	repos.accounts.On("LockBalance", mock.Anything, testUserID).Return(int64(1000), nil)
	repos.accounts.On("ApplyDelta", mock.Anything, testUserID, int64(198)).Return(int64(1198), nil).Once()
	repos.stats.On("RecordWager", mock.Anything, testUserID, int64(198)).Return(nil).Once()

	result, err := env.core.Wagers.PlayInstant(context.Background(), player(), dto.InstantWagerDTO{
		Game:   entities.TransactionTypeCoinflip,
		Bet:    100,
		Choice: "heads",
	})
	require.NoError(t, err)

	assert.Equal(t, games.ResultWin, result.Outcome.Result)
	assert.Equal(t, int64(198), result.Outcome.Delta)
	assert.Equal(t, int64(1198), result.Balance)
	assert.Equal(t, env.cfg.DefaultCurrency, result.Currency)

	repos.history.AssertCalled(t, "Append", mock.Anything, mock.MatchedBy(func(e *entities.HistoryEntry) bool {
		return e.Game == entities.TransactionTypeCoinflip && e.Bet == 100 && e.Delta == 198 && e.BalanceAfter == 1198
	}))

	settled := repos.publishedOfType(events.EventTypeWagerSettled)
	require.Len(t, settled, 1)
	assert.Equal(t, "win", settled[0].(events.WagerSettledEvent).Result)
	assert.Len(t, repos.publishedOfType(events.EventTypeBalanceChange), 1)

	repos.accounts.AssertExpectations(t)
	repos.stats.AssertExpectations(t)
}

func TestPlayInstant_BetBelowMinimumChangesNothing(t *testing.T) {
	env := newTestEnv(t, games.NewSeededRNG(1), nil)

	_, err := env.core.Wagers.PlayInstant(context.Background(), player(), dto.InstantWagerDTO{
		Game:   entities.TransactionTypeCoinflip,
		Bet:    5,
		Choice: "heads",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, apperr.ReasonBetBelowMin, apperr.ReasonOf(err))

	env.repos.accounts.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, env.repos.published)
}

func TestPlayInstant_RetryReusesOutcome(t *testing.T) {
	// The scripted RNG has a single tails; a re-roll would land heads
	env := newTestEnv(t, games.NewScriptedRNG([]int{1}), nil)
	repos := env.repos
	repos.commitErrs = []error{
		apperr.Persistence("commit transaction", &pgconn.PgError{Code: "40001"}),
	}

	repos.accounts.On("LockBalance", mock.Anything, testUserID).Return(int64(1000), nil)
	repos.accounts.On("ApplyDelta", mock.Anything, testUserID, int64(198)).Return(int64(1198), nil)
	repos.stats.On("RecordWager", mock.Anything, testUserID, int64(198)).Return(nil)

	result, err := env.core.Wagers.PlayInstant(context.Background(), player(), dto.InstantWagerDTO{
		Game:   entities.TransactionTypeCoinflip,
		Bet:    100,
		Choice: "tails",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(198), result.Outcome.Delta)
	repos.accounts.AssertNumberOfCalls(t, "ApplyDelta", 2)
	assert.Equal(t, 1, repos.commits)
	assert.Len(t, repos.publishedOfType(events.EventTypeWagerSettled), 1)
}

func TestPlayInstant_RateLimited(t *testing.T) {
	env := newTestEnv(t, games.NewSeededRNG(1), stubLimiter{allowed: false, retryAfter: 3 * time.Second})

	_, err := env.core.Wagers.PlayInstant(context.Background(), player(), dto.InstantWagerDTO{
		Game:   entities.TransactionTypeSlots,
		Bet:    100,
		Choice: "",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ReasonRateLimited, apperr.ReasonOf(err))

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 3*time.Second, appErr.RetryAfter)
	env.repos.accounts.AssertNotCalled(t, "LockBalance", mock.Anything, mock.Anything)
}

func TestPlayInstant_LimiterOutageFailsOpen(t *testing.T) {
	env := newTestEnv(t, games.NewScriptedRNG([]int{1}), stubLimiter{err: assert.AnError})
	repos := env.repos

	repos.accounts.On("LockBalance", mock.Anything, testUserID).Return(int64(1000), nil)
	repos.accounts.On("ApplyDelta", mock.Anything, testUserID, int64(-100)).Return(int64(900), nil)
	repos.stats.On("RecordWager", mock.Anything, testUserID, int64(-100)).Return(nil)

	result, err := env.core.Wagers.PlayInstant(context.Background(), player(), dto.InstantWagerDTO{
		Game:   entities.TransactionTypeCoinflip,
		Bet:    100,
		Choice: "heads",
	})
	require.NoError(t, err)
	assert.Equal(t, games.ResultLoss, result.Outcome.Result)
	assert.Equal(t, int64(900), result.Balance)
}
