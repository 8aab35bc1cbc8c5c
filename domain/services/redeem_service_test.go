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

var redeemNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newRedeemEnv(t *testing.T) (*serviceEnv, *redeemService) {
	env := newServiceEnv(t).withSettings(nil)
	svc := NewRedeemService(testGuildID, env.ledger, env.settings, env.codes, env.publisher).(*redeemService)
	return env, svc
}

func TestRedeemService_Redeem_Success(t *testing.T) {
	ctx := context.Background()
	env, svc := newRedeemEnv(t)

	code := &entities.RedeemCode{GuildID: testGuildID, Code: "SPRING", Amount: 500, MaxUses: 3, Uses: 2}
	env.codes.On("GetForUpdate", ctx, "SPRING").Return(code, nil)
	env.codes.On("HasClaimed", ctx, "SPRING", testUserID).Return(false, nil)
	env.codes.On("AddClaim", ctx, "SPRING", testUserID, redeemNow).Return(nil)
	env.codes.On("Update", ctx, mock.MatchedBy(func(c *entities.RedeemCode) bool { return c.Uses == 3 })).Return(nil)
	env.accounts.On("ApplyDelta", ctx, testUserID, int64(500)).Return(int64(1500), nil)
	env.history.On("Append", ctx, mock.MatchedBy(func(h *entities.HistoryEntry) bool {
		return h.Game == entities.TransactionTypeRedeem && h.Metadata["code"] == "SPRING"
	})).Return(nil)

	amount, balance, err := svc.Redeem(ctx, player(), "  spring ", redeemNow)
	require.NoError(t, err)
	assert.Equal(t, int64(500), amount)
	assert.Equal(t, int64(1500), balance)

	env.assertExpectations(t)
	env.publisher.AssertCalled(t, "Publish", events.CodeRedeemedEvent{
		GuildID: testGuildID, UserID: testUserID, Code: "SPRING", Amount: 500, RemainingUses: 0,
	})
}

func TestRedeemService_Redeem_CheckOrder(t *testing.T) {
	ctx := context.Background()
	past := redeemNow.Add(-time.Minute)

	tests := []struct {
		name    string
		code    *entities.RedeemCode
		claimed bool
		reason  apperr.Reason
	}{
		{"not found", nil, false, apperr.ReasonCodeNotFound},
		{"disabled before expired", &entities.RedeemCode{Code: "X1", Amount: 5, MaxUses: 1, Disabled: true, ExpiresAt: &past}, false, apperr.ReasonCodeDisabled},
		{"expired before claimed", &entities.RedeemCode{Code: "X1", Amount: 5, MaxUses: 1, ExpiresAt: &past}, true, apperr.ReasonCodeExpired},
		{"expiry instant counts as expired", &entities.RedeemCode{Code: "X1", Amount: 5, MaxUses: 1, ExpiresAt: &redeemNow}, false, apperr.ReasonCodeExpired},
		{"claimed before exhausted", &entities.RedeemCode{Code: "X1", Amount: 5, MaxUses: 1, Uses: 1}, true, apperr.ReasonCodeAlreadyClaimed},
		{"exhausted", &entities.RedeemCode{Code: "X1", Amount: 5, MaxUses: 1, Uses: 1}, false, apperr.ReasonCodeExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, svc := newRedeemEnv(t)
			if tt.code == nil {
				env.codes.On("GetForUpdate", ctx, "X1").Return(nil, nil)
			} else {
				env.codes.On("GetForUpdate", ctx, "X1").Return(tt.code, nil)
			}
			env.codes.On("HasClaimed", ctx, "X1", testUserID).Return(tt.claimed, nil).Maybe()

			_, _, err := svc.Redeem(ctx, player(), "x1", redeemNow)

			assert.Equal(t, apperr.KindCodeInvalid, apperr.KindOf(err))
			assert.Equal(t, tt.reason, apperr.ReasonOf(err))
			env.codes.AssertNotCalled(t, "AddClaim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			env.accounts.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRedeemService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises and stores", func(t *testing.T) {
		env, svc := newRedeemEnv(t)
		env.codes.On("Create", ctx, mock.MatchedBy(func(c *entities.RedeemCode) bool {
			return c.Code == "WELCOME" && c.GuildID == testGuildID && c.CreatedBy == testUserID
		})).Return(nil)

		code, err := svc.Create(ctx, admin(), &entities.RedeemCode{Code: " welcome ", Amount: 250, MaxUses: 10})
		require.NoError(t, err)
		assert.Equal(t, "WELCOME", code.Code)
		env.assertExpectations(t)
	})

	t.Run("duplicate passes through", func(t *testing.T) {
		env, svc := newRedeemEnv(t)
		env.codes.On("Create", ctx, mock.Anything).Return(
			apperr.Validation(apperr.ReasonCodeAlreadyExists, "code WELCOME already exists"))

		_, err := svc.Create(ctx, admin(), &entities.RedeemCode{Code: "welcome", Amount: 250, MaxUses: 10})
		assert.Equal(t, apperr.ReasonCodeAlreadyExists, apperr.ReasonOf(err))
	})

	t.Run("rejects", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		cases := map[string]*entities.RedeemCode{
			"short code":     {Code: "AB", Amount: 10, MaxUses: 1},
			"space in code":  {Code: "TWO WORDS", Amount: 10, MaxUses: 1},
			"zero amount":    {Code: "ABC", Amount: 0, MaxUses: 1},
			"zero max uses":  {Code: "ABC", Amount: 10, MaxUses: 0},
			"expiry in past": {Code: "ABC", Amount: 10, MaxUses: 1, ExpiresAt: &past},
		}
		for name, code := range cases {
			t.Run(name, func(t *testing.T) {
				env, svc := newRedeemEnv(t)
				_, err := svc.Create(ctx, admin(), code)
				assert.Equal(t, apperr.ReasonInvalidParameter, apperr.ReasonOf(err))
				env.codes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("requires banker", func(t *testing.T) {
		env, svc := newRedeemEnv(t)
		_, err := svc.Create(ctx, player(), &entities.RedeemCode{Code: "ABC", Amount: 10, MaxUses: 1})
		assert.Equal(t, apperr.ReasonNotBanker, apperr.ReasonOf(err))
		env.codes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRedeemService_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("max uses below claimed", func(t *testing.T) {
		env, svc := newRedeemEnv(t)
		env.codes.On("GetForUpdate", ctx, "ABC").Return(&entities.RedeemCode{Code: "ABC", Amount: 10, MaxUses: 5, Uses: 3}, nil)
		maxUses := 2

		_, err := svc.Edit(ctx, admin(), "abc", entities.CodeEdit{MaxUses: &maxUses})
		assert.Equal(t, apperr.ReasonInvalidParameter, apperr.ReasonOf(err))
		env.codes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("re-enable and clear expiry", func(t *testing.T) {
		env, svc := newRedeemEnv(t)
		expiry := redeemNow
		env.codes.On("GetForUpdate", ctx, "ABC").Return(&entities.RedeemCode{
			Code: "ABC", Amount: 10, MaxUses: 5, Disabled: true, ExpiresAt: &expiry,
		}, nil)
		env.codes.On("Update", ctx, mock.MatchedBy(func(c *entities.RedeemCode) bool {
			return !c.Disabled && c.ExpiresAt == nil
		})).Return(nil)
		enabled := true

		code, err := svc.Edit(ctx, admin(), "ABC", entities.CodeEdit{Enabled: &enabled, ClearExpiry: true})
		require.NoError(t, err)
		assert.False(t, code.Disabled)
		env.assertExpectations(t)
	})
}

func TestRedeemService_DeleteAndDisable(t *testing.T) {
	ctx := context.Background()
	env, svc := newRedeemEnv(t)

	env.codes.On("Delete", ctx, "GONE").Return(false, nil)
	err := svc.Delete(ctx, admin(), "gone")
	assert.Equal(t, apperr.ReasonCodeNotFound, apperr.ReasonOf(err))

	env.codes.On("GetForUpdate", ctx, "LIVE").Return(&entities.RedeemCode{Code: "LIVE", Amount: 10, MaxUses: 1}, nil)
	env.codes.On("Update", ctx, mock.MatchedBy(func(c *entities.RedeemCode) bool { return c.Disabled })).Return(nil)
	require.NoError(t, svc.Disable(ctx, admin(), "live"))
	env.assertExpectations(t)
}
