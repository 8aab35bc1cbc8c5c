package repository

import (
	"context"
	"testing"
	"time"

	"guildledger/domain/entities"
	"guildledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildSettingsRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newGuildSettingsRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	gs, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, gs, "untouched guild has no row")

	minBet := int64(25)
	channel := int64(0)
	mode := entities.PayoutModeNet
	require.NoError(t, repo.Upsert(ctx, &entities.GuildSettings{
		MinBet:            &minBet,
		GamblingChannelID: &channel,
		PayoutMode:        &mode,
	}))

	gs, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, gs)
	assert.Equal(t, testGuildID, gs.GuildID)
	assert.Equal(t, int64(25), *gs.MinBet)
	assert.Nil(t, gs.MaxBet)
	require.NotNil(t, gs.GamblingChannelID, "explicit clear is stored as zero, not NULL")
	assert.Equal(t, int64(0), *gs.GamblingChannelID)
	assert.Equal(t, entities.PayoutModeNet, *gs.PayoutMode)

	gs.MinBet = nil
	require.NoError(t, repo.Upsert(ctx, gs))
	gs, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, gs.MinBet)
}

func TestStatsRepository_RecordWager(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newStatsRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	stats, err := repo.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, entities.StatsRecord{GuildID: testGuildID, UserID: 3}, *stats)

	for _, delta := range []int64{198, -100, 0, 500, -40} {
		require.NoError(t, repo.RecordWager(ctx, 3, delta))
	}

	stats, err = repo.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Bets)
	assert.Equal(t, int64(698), stats.Won)
	assert.Equal(t, int64(140), stats.Lost)
	assert.Equal(t, int64(500), stats.BiggestWin)
	assert.Equal(t, int64(558), stats.Net())
}

func TestDailyClaimRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := newDailyClaimRepository(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	claim, err := repo.Get(ctx, 4)
	require.NoError(t, err)
	assert.Nil(t, claim)

	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, 4, first))
	second := first.Add(24 * time.Hour)
	require.NoError(t, repo.Record(ctx, 4, second))

	claim, err = repo.Get(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.True(t, second.Equal(claim.LastClaimAt))
}
