package testhelpers

import (
	"context"
	"time"

	"guildledger/domain/entities"
	"guildledger/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, userID int64, delta int64) (int64, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) LockBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) TopBalances(ctx context.Context, limit int) ([]*entities.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) ResetAll(ctx context.Context) ([]*entities.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) Get(ctx context.Context) (*entities.GuildSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) Upsert(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, userID int64) (*entities.StatsRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StatsRecord), args.Error(1)
}

func (m *MockStatsRepository) RecordWager(ctx context.Context, userID int64, delta int64) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry *entities.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.HistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.HistoryEntry), args.Error(1)
}

// MockDailyClaimRepository is a mock implementation of DailyClaimRepository
type MockDailyClaimRepository struct {
	mock.Mock
}

func (m *MockDailyClaimRepository) Get(ctx context.Context, userID int64) (*entities.DailyClaim, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DailyClaim), args.Error(1)
}

func (m *MockDailyClaimRepository) Record(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

// MockRedeemCodeRepository is a mock implementation of RedeemCodeRepository
type MockRedeemCodeRepository struct {
	mock.Mock
}

func (m *MockRedeemCodeRepository) Create(ctx context.Context, code *entities.RedeemCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) Get(ctx context.Context, code string) (*entities.RedeemCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) GetForUpdate(ctx context.Context, code string) (*entities.RedeemCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) Update(ctx context.Context, code *entities.RedeemCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedeemCodeRepository) Delete(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedeemCodeRepository) List(ctx context.Context) ([]*entities.RedeemCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RedeemCode), args.Error(1)
}

func (m *MockRedeemCodeRepository) HasClaimed(ctx context.Context, code string, userID int64) (bool, error) {
	args := m.Called(ctx, code, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedeemCodeRepository) AddClaim(ctx context.Context, code string, userID int64, at time.Time) error {
	args := m.Called(ctx, code, userID, at)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockExposureTracker is a mock implementation of ExposureTracker
type MockExposureTracker struct {
	mock.Mock
}

func (m *MockExposureTracker) Exposure(guildID, userID int64) int64 {
	args := m.Called(guildID, userID)
	return args.Get(0).(int64)
}

// MockTransactionalEventPublisher is a mock implementation of TransactionalEventPublisher
type MockTransactionalEventPublisher struct {
	mock.Mock
}

func (m *MockTransactionalEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Discard() {
	m.Called()
}
