package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsRecord_Apply(t *testing.T) {
	var s StatsRecord
	s.Apply(198)
	s.Apply(-100)
	s.Apply(0)
	s.Apply(50)

	assert.Equal(t, int64(4), s.Bets)
	assert.Equal(t, int64(248), s.Won)
	assert.Equal(t, int64(100), s.Lost)
	assert.Equal(t, int64(198), s.BiggestWin)
	assert.Equal(t, int64(148), s.Net())
}

func TestRedeemCode_State(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	assert.False(t, (&RedeemCode{}).IsExpired(now))
	assert.True(t, (&RedeemCode{ExpiresAt: &past}).IsExpired(now))
	assert.True(t, (&RedeemCode{ExpiresAt: &now}).IsExpired(now))
	assert.False(t, (&RedeemCode{ExpiresAt: &future}).IsExpired(now))

	code := &RedeemCode{MaxUses: 3, Uses: 2}
	assert.False(t, code.IsExhausted())
	assert.Equal(t, 1, code.RemainingUses())
	code.Uses = 3
	assert.True(t, code.IsExhausted())
	assert.Equal(t, 0, code.RemainingUses())
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SPRING25", NormalizeCode("  spring25 "))
}

func TestDailyClaim_Remaining(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	var never *DailyClaim
	assert.Zero(t, never.Remaining(now, DailyClaimCooldown))

	recent := &DailyClaim{LastClaimAt: now.Add(-23 * time.Hour)}
	assert.Equal(t, 30*time.Minute, recent.Remaining(now, DailyClaimCooldown))

	old := &DailyClaim{LastClaimAt: now.Add(-24 * time.Hour)}
	assert.Zero(t, old.Remaining(now, DailyClaimCooldown))
}

func TestTransactionType_IsWager(t *testing.T) {
	assert.True(t, TransactionTypeCoinflip.IsWager())
	assert.True(t, TransactionTypeCrash.IsWager())
	assert.False(t, TransactionTypeDaily.IsWager())
	assert.False(t, TransactionTypeRedeem.IsWager())
}

func TestActor_HasRole(t *testing.T) {
	a := Actor{RoleIDs: []int64{1, 2}}
	assert.True(t, a.HasRole(2))
	assert.False(t, a.HasRole(3))
	assert.False(t, a.HasRole(0))
}
