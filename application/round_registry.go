package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"guildledger/application/dto"
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/events"
	"guildledger/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// finishedRoundRetention keeps settled rounds addressable so late clicks
	// get ErrRoundFinished instead of ErrRoundNotFound
	finishedRoundRetention = 10 * time.Minute

	// settleTimeout bounds settlements that no interaction is waiting on
	settleTimeout = 15 * time.Second
)

// roundSession is one open live round. mu serialises every player action,
// tick and timeout; settled flips exactly once, after the ledger commit.
type roundSession struct {
	mu         sync.Mutex
	id         string
	guildID    int64
	userID     int64
	channelID  int64
	currency   string
	round      games.Round
	timeout    time.Duration
	timer      *time.Timer
	generation uint64
	settled    bool
	expired    bool
	// ready is set once open has committed; ticks leave the round alone before that
	ready bool
	balance    int64

	// stake is read by Exposure without taking mu
	stake atomic.Int64
}

// RoundRegistry keeps live blackjack, hi-lo and crash rounds in memory and
// settles each of them exactly once. It also reports the stakes held by open
// rounds, which solvency checks subtract from the balance.
type RoundRegistry struct {
	core *ledgerCore

	mu        sync.RWMutex
	sessions  map[string]*roundSession
	observers []RoundObserver

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRoundRegistry creates an empty registry
func NewRoundRegistry(core *ledgerCore) *RoundRegistry {
	return &RoundRegistry{
		core:     core,
		sessions: make(map[string]*roundSession),
		stopCh:   make(chan struct{}),
	}
}

// Observe registers an observer for changes no player action caused
func (r *RoundRegistry) Observe(observer RoundObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, observer)
}

// Start launches the crash driver. It runs until ctx ends or Shutdown is called.
func (r *RoundRegistry) Start(ctx context.Context) {
	interval := r.core.cfg.CrashTickInterval
	if interval <= 0 {
		interval = time.Second
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.TickCrashRounds()
			}
		}
	}()
}

// Shutdown stops the crash driver and every idle timer, then settles each
// open round as if it had timed out.
func (r *RoundRegistry) Shutdown() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()

	r.mu.Lock()
	sessions := make([]*roundSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	forfeited, failed := 0, 0
	for _, s := range sessions {
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		if s.settled {
			s.mu.Unlock()
			continue
		}

		if !s.round.Phase().IsTerminal() {
			s.round.Expire()
			s.expired = true
		}
		ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
		err := r.settle(ctx, s)
		cancel()
		if err != nil {
			failed++
		} else {
			forfeited++
		}
		s.mu.Unlock()
	}

	r.mu.Lock()
	r.sessions = make(map[string]*roundSession)
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"settledRounds": forfeited,
		"failedRounds":  failed,
	}).Info("Round registry stopped")
}

// Exposure sums the stakes of the user's open rounds
func (r *RoundRegistry) Exposure(guildID, userID int64) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, s := range r.sessions {
		if s.guildID == guildID && s.userID == userID {
			total += s.stake.Load()
		}
	}
	return total
}

// Get returns a snapshot of a round
func (r *RoundRegistry) Get(roundID string) (*dto.RoundDTO, bool) {
	s := r.lookup(roundID)
	if s == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	view := r.snapshot(s)
	return &view, true
}

// StartBlackjack deals a blackjack round
func (r *RoundRegistry) StartBlackjack(ctx context.Context, actor entities.Actor, bet int64) (*dto.RoundDTO, error) {
	return r.open(ctx, actor, bet, func(stake games.Stake) (games.Round, error) {
		return games.NewBlackjack(stake, r.core.rng)
	})
}

// StartHiLo reveals the base card of a hi-lo round
func (r *RoundRegistry) StartHiLo(ctx context.Context, actor entities.Actor, bet int64) (*dto.RoundDTO, error) {
	return r.open(ctx, actor, bet, func(stake games.Stake) (games.Round, error) {
		return games.NewHiLo(stake, r.core.rng)
	})
}

// StartCrash launches a crash round; the crash driver moves it from here on
func (r *RoundRegistry) StartCrash(ctx context.Context, actor entities.Actor, bet int64) (*dto.RoundDTO, error) {
	return r.open(ctx, actor, bet, func(stake games.Stake) (games.Round, error) {
		return games.NewCrash(stake, r.core.rng)
	})
}

// open checks the stake and registers the round inside one transaction, so a
// concurrent stake check on the same account already sees its exposure
func (r *RoundRegistry) open(ctx context.Context, actor entities.Actor, bet int64, deal func(games.Stake) (games.Round, error)) (*dto.RoundDTO, error) {
	if err := r.core.checkRate(ctx, actor); err != nil {
		return nil, err
	}

	var round games.Round
	var s *roundSession
	err := r.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, svc serviceSet) error {
		if s != nil {
			r.discard(s)
			s = nil
		}

		eff, err := svc.wagers.CheckStake(ctx, actor, bet)
		if err != nil {
			return err
		}

		if round == nil {
			round, err = deal(games.Stake{Bet: bet, Edge: eff.HouseEdge, Mode: eff.PayoutMode})
			if err != nil {
				return err
			}
		}

		s = r.register(actor, round, eff.Currency)
		return nil
	})
	if err != nil {
		if s != nil {
			r.discard(s)
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = true
	if !s.settled {
		r.arm(s)
		if s.round.Phase().IsTerminal() {
			// A natural blackjack finishes on the deal
			if err := r.settle(ctx, s); err != nil {
				return nil, err
			}
		}
	}

	log.WithFields(log.Fields{
		"guildID": actor.GuildID,
		"userID":  actor.UserID,
		"roundID": s.id,
		"game":    round.Game(),
		"bet":     bet,
	}).Info("Live round opened")

	view := r.snapshot(s)
	return &view, nil
}

// Act applies a player action. Actions on a settled round return ErrRoundFinished.
func (r *RoundRegistry) Act(ctx context.Context, actor entities.Actor, roundID string, action games.Action) (*dto.RoundDTO, error) {
	s := r.lookup(roundID)
	if s == nil || s.guildID != actor.GuildID {
		return nil, apperr.ErrRoundNotFound
	}
	if s.userID != actor.UserID {
		return nil, apperr.Unauthorized(apperr.ReasonNotRoundOwner, "this round belongs to someone else")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settled {
		return nil, apperr.ErrRoundFinished
	}

	if !s.round.Phase().IsTerminal() {
		if action == games.ActionDouble {
			if err := r.reserveDouble(ctx, actor, s); err != nil {
				return nil, err
			}
		}
		if err := s.round.Act(action); err != nil {
			s.stake.Store(s.round.Exposure())
			return nil, err
		}
		s.stake.Store(s.round.Exposure())
	}

	if s.round.Phase().IsTerminal() {
		if err := r.settle(ctx, s); err != nil {
			return nil, err
		}
	} else {
		r.arm(s)
	}

	view := r.snapshot(s)
	return &view, nil
}

// reserveDouble checks the available balance covers a second stake and
// raises the session's exposure before the lock is released
func (r *RoundRegistry) reserveDouble(ctx context.Context, actor entities.Actor, s *roundSession) error {
	extra := s.round.Exposure()
	return r.core.run(ctx, actor.GuildID, func(ctx context.Context, uow UnitOfWork, svc serviceSet) error {
		available, err := svc.ledger.Available(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if available < extra {
			return apperr.InsufficientBalance(available, extra)
		}
		s.stake.Store(2 * extra)
		return nil
	})
}

// TickCrashRounds advances every open crash round by one step
func (r *RoundRegistry) TickCrashRounds() {
	r.mu.RLock()
	var crashes []*roundSession
	for _, s := range r.sessions {
		if s.round.Game() == entities.TransactionTypeCrash {
			crashes = append(crashes, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range crashes {
		r.tick(s)
	}
}

func (r *RoundRegistry) tick(s *roundSession) {
	crash, ok := s.round.(*games.Crash)
	if !ok {
		return
	}

	s.mu.Lock()
	if s.settled || !s.ready {
		s.mu.Unlock()
		return
	}

	if !crash.Phase().IsTerminal() {
		_ = crash.Tick(r.core.rng)
	}
	if !crash.Phase().IsTerminal() {
		view := r.snapshot(s)
		s.mu.Unlock()
		r.notify(view, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	err := r.settle(ctx, s)
	view := r.snapshot(s)
	s.mu.Unlock()

	if err == nil {
		r.notify(view, true)
	}
}

// expire is the idle timer callback. A stale generation means the player
// acted after the timer fired.
func (r *RoundRegistry) expire(s *roundSession, generation uint64) {
	s.mu.Lock()
	if s.settled || s.generation != generation {
		s.mu.Unlock()
		return
	}

	if !s.round.Phase().IsTerminal() {
		s.round.Expire()
		s.expired = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	if err := r.settle(ctx, s); err != nil {
		// Try again after another idle period
		r.arm(s)
		s.mu.Unlock()
		return
	}
	view := r.snapshot(s)
	s.mu.Unlock()

	r.notify(view, true)
}

// settle applies the finished round to the ledger. Callers hold s.mu.
func (r *RoundRegistry) settle(ctx context.Context, s *roundSession) error {
	outcome, ok := s.round.Outcome()
	if !ok {
		return fmt.Errorf("round %s has no outcome yet", s.id)
	}

	var balance int64
	err := r.core.run(ctx, s.guildID, func(ctx context.Context, uow UnitOfWork, svc serviceSet) error {
		var err error
		balance, err = svc.wagers.Settle(ctx, s.userID, outcome, s.id)
		if err != nil {
			return err
		}
		if s.expired {
			expired := events.RoundExpiredEvent{
				GuildID: s.guildID,
				UserID:  s.userID,
				RoundID: s.id,
				Game:    outcome.Game,
				Bet:     outcome.Bet,
				Delta:   outcome.Delta,
			}
			if err := uow.EventBus().Publish(expired); err != nil {
				log.WithError(err).Error("Failed to publish round expired event")
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guildID": s.guildID,
			"userID":  s.userID,
			"roundID": s.id,
		}).Error("Failed to settle live round")
		return err
	}

	s.settled = true
	s.balance = balance
	s.stake.Store(0)
	if s.timer != nil {
		s.timer.Stop()
	}
	observability.GetMetrics().UpdateOpenRounds(string(outcome.Game), -1)

	id := s.id
	time.AfterFunc(finishedRoundRetention, func() { r.remove(id) })

	log.WithFields(log.Fields{
		"guildID": s.guildID,
		"userID":  s.userID,
		"roundID": s.id,
		"game":    outcome.Game,
		"delta":   outcome.Delta,
		"expired": s.expired,
	}).Info("Live round settled")
	return nil
}

// arm (re)starts the idle timer. Callers hold s.mu.
func (r *RoundRegistry) arm(s *roundSession) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	generation := s.generation
	s.timer = time.AfterFunc(s.timeout, func() { r.expire(s, generation) })
}

func (r *RoundRegistry) register(actor entities.Actor, round games.Round, currency string) *roundSession {
	s := &roundSession{
		id:        uuid.NewString(),
		guildID:   actor.GuildID,
		userID:    actor.UserID,
		channelID: actor.ChannelID,
		currency:  currency,
		round:     round,
		timeout:   r.timeoutFor(round.Game()),
	}
	s.stake.Store(round.Exposure())

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	observability.GetMetrics().UpdateOpenRounds(string(round.Game()), 1)
	return s
}

// discard forgets a round that never became visible to the player
func (r *RoundRegistry) discard(s *roundSession) {
	r.remove(s.id)
	observability.GetMetrics().UpdateOpenRounds(string(s.round.Game()), -1)
}

func (r *RoundRegistry) remove(roundID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, roundID)
}

func (r *RoundRegistry) lookup(roundID string) *roundSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[roundID]
}

func (r *RoundRegistry) timeoutFor(game entities.TransactionType) time.Duration {
	switch game {
	case entities.TransactionTypeBlackjack:
		return r.core.cfg.BlackjackTimeout
	case entities.TransactionTypeHiLo:
		return r.core.cfg.HiLoTimeout
	default:
		return r.core.cfg.CrashTimeout
	}
}

func (r *RoundRegistry) notify(view dto.RoundDTO, settled bool) {
	r.mu.RLock()
	observers := make([]RoundObserver, len(r.observers))
	copy(observers, r.observers)
	r.mu.RUnlock()

	for _, observer := range observers {
		if settled {
			observer.OnSettled(view)
		} else {
			observer.OnUpdate(view)
		}
	}
}

// snapshot renders the session for observers. Callers hold s.mu.
func (r *RoundRegistry) snapshot(s *roundSession) dto.RoundDTO {
	view := dto.RoundDTO{
		ID:        s.id,
		GuildID:   s.guildID,
		UserID:    s.userID,
		ChannelID: s.channelID,
		Game:      s.round.Game(),
		Bet:       s.round.Exposure(),
		Phase:     s.round.Phase(),
		Currency:  s.currency,
		Settled:   s.settled,
		Expired:   s.expired,
		Balance:   s.balance,
	}
	if outcome, ok := s.round.Outcome(); ok {
		view.Outcome = &outcome
		view.Bet = outcome.Bet
	}

	switch round := s.round.(type) {
	case *games.Blackjack:
		view.PlayerCards = round.Player.Strings()
		view.PlayerTotal = round.Player.Value()
		if round.Phase() == games.PhasePlayerTurn {
			up := round.DealerUpCard()
			view.DealerCards = []string{up.String()}
			view.DealerTotal = games.Hand{up}.Value()
		} else {
			view.DealerCards = round.Dealer.Strings()
			view.DealerTotal = round.Dealer.Value()
		}
		view.CanDouble = round.CanDouble()
	case *games.HiLo:
		view.BaseCard = round.Base.String()
		if round.Next != nil {
			view.NextCard = round.Next.String()
		}
	case *games.Crash:
		view.Multiplier = round.Multiplier()
		if round.Phase().IsTerminal() {
			view.BustPoint = round.BustPoint()
		}
	}
	return view
}
