package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"guildledger/domain/apperr"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "validation message is capitalised",
			err:      apperr.Validation(apperr.ReasonBetBelowMin, "minimum bet is %d", 10),
			expected: "Minimum bet is 10",
		},
		{
			name:     "wrapped errors are unwrapped",
			err:      fmt.Errorf("play: %w", apperr.InsufficientBalance(50, 100)),
			expected: "Insufficient balance: have 50, need 100",
		},
		{
			name:     "cooldown keeps the wait",
			err:      apperr.Cooldown(apperr.ReasonDailyCooldown, 2*time.Hour, "daily already claimed, try again in 2h 0m"),
			expected: "Daily already claimed, try again in 2h 0m",
		},
		{
			name:     "admin requirement",
			err:      apperr.Unauthorized(apperr.ReasonNotAdmin, "manage server required"),
			expected: "You need the Manage Server permission to do that.",
		},
		{
			name:     "round owner",
			err:      apperr.Unauthorized(apperr.ReasonNotRoundOwner, "round belongs to someone else"),
			expected: "That isn't your round.",
		},
		{
			name:     "finished round",
			err:      apperr.ErrRoundFinished,
			expected: "That round is already over.",
		},
		{
			name:     "persistence never leaks internals",
			err:      apperr.Persistence("apply delta", errors.New("connection reset by peer")),
			expected: "Your request could not be saved. Please try again.",
		},
		{
			name:     "unknown errors are generic",
			err:      errors.New("boom"),
			expected: genericFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}
