package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"guildledger/application/dto"
	"guildledger/config"
	"guildledger/domain/games"
	"guildledger/domain/interfaces"
	"guildledger/domain/testhelpers"
	"guildledger/events"

	"github.com/stretchr/testify/mock"
)

const (
	testGuildID   = int64(31337)
	testChannelID = int64(4444)
	testUserID    = int64(100)
)

// fakeRepos is shared by every unit of work a fakeFactory hands out
type fakeRepos struct {
	accounts *testhelpers.MockAccountRepository
	settings *testhelpers.MockGuildSettingsRepository
	stats    *testhelpers.MockStatsRepository
	history  *testhelpers.MockHistoryRepository
	daily    *testhelpers.MockDailyClaimRepository
	codes    *testhelpers.MockRedeemCodeRepository

	mu         sync.Mutex
	commitErrs []error
	commits    int
	published  []events.Event

	// afterCommit runs once, right after the next successful commit
	afterCommit func()
}

func (f *fakeRepos) CreateForGuild(guildID int64) UnitOfWork {
	return &fakeUnitOfWork{repos: f}
}

func (f *fakeRepos) publishedOfType(eventType events.EventType) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, e := range f.published {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeUnitOfWork commits by moving its queued events to the shared list
type fakeUnitOfWork struct {
	repos   *fakeRepos
	pending []events.Event
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }

func (u *fakeUnitOfWork) Commit() error {
	u.repos.mu.Lock()
	if len(u.repos.commitErrs) > 0 {
		err := u.repos.commitErrs[0]
		u.repos.commitErrs = u.repos.commitErrs[1:]
		u.pending = nil
		u.repos.mu.Unlock()
		return err
	}
	u.repos.commits++
	u.repos.published = append(u.repos.published, u.pending...)
	u.pending = nil
	hook := u.repos.afterCommit
	u.repos.afterCommit = nil
	u.repos.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.pending = nil
	return nil
}

func (u *fakeUnitOfWork) Publish(event events.Event) error {
	u.pending = append(u.pending, event)
	return nil
}

func (u *fakeUnitOfWork) AccountRepository() interfaces.AccountRepository { return u.repos.accounts }
func (u *fakeUnitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	return u.repos.settings
}
func (u *fakeUnitOfWork) StatsRepository() interfaces.StatsRepository { return u.repos.stats }
func (u *fakeUnitOfWork) HistoryRepository() interfaces.HistoryRepository { return u.repos.history }
func (u *fakeUnitOfWork) DailyClaimRepository() interfaces.DailyClaimRepository {
	return u.repos.daily
}
func (u *fakeUnitOfWork) RedeemCodeRepository() interfaces.RedeemCodeRepository {
	return u.repos.codes
}
func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u }

// stubLimiter answers every Allow with the configured verdict
type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
}

func (s stubLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	return s.allowed, s.retryAfter, s.err
}

// recordingObserver collects round notifications
type recordingObserver struct {
	mu      sync.Mutex
	updates []string
	settled []string
}

func (o *recordingObserver) OnUpdate(round dto.RoundDTO) { o.add(&o.updates, round.ID) }
func (o *recordingObserver) OnSettled(round dto.RoundDTO) { o.add(&o.settled, round.ID) }

func (o *recordingObserver) add(list *[]string, id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	*list = append(*list, id)
}

func (o *recordingObserver) settledIDs() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.settled...)
}

type testEnv struct {
	repos *fakeRepos
	core  *Core
	cfg   *config.Config
}

// newTestEnv builds a Core over repository mocks with default guild settings
func newTestEnv(t *testing.T, rng games.RNG, limiter RateLimiter) *testEnv {
	t.Helper()

	cfg := config.NewTestConfig()
	config.SetTestConfig(cfg)
	t.Cleanup(config.ResetConfig)

	repos := &fakeRepos{
		accounts: new(testhelpers.MockAccountRepository),
		settings: new(testhelpers.MockGuildSettingsRepository),
		stats:    new(testhelpers.MockStatsRepository),
		history:  new(testhelpers.MockHistoryRepository),
		daily:    new(testhelpers.MockDailyClaimRepository),
		codes:    new(testhelpers.MockRedeemCodeRepository),
	}
	repos.settings.On("Get", mock.Anything).Return(nil, nil).Maybe()
	repos.history.On("Append", mock.Anything, mock.Anything).Return(nil).Maybe()

	core := NewCore(repos, cfg, limiter, rng)
	t.Cleanup(core.Rounds.Shutdown)
	// Cleanups run last-in first-out: rounds a test leaves open are forfeited
	// by Shutdown, so let those settlements through after the test's own
	// expectations.
	t.Cleanup(func() {
		repos.accounts.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
		repos.stats.On("RecordWager", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	})

	return &testEnv{repos: repos, core: core, cfg: cfg}
}
