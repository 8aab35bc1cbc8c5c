package application

import (
	"context"
	"fmt"
	"time"

	"guildledger/config"
	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/domain/interfaces"
	"guildledger/domain/services"
	"guildledger/domain/utils"
	"guildledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Core bundles the use-cases the chat layer calls. Every operation runs in
// its own guild-scoped transaction and never formats user-facing text.
type Core struct {
	Ledger   Ledger
	Wagers   Wagers
	Rounds   *RoundRegistry
	Economy  Economy
	Codes    Codes
	Settings Settings
}

// NewCore wires the use-cases over a unit of work factory
func NewCore(uowFactory UnitOfWorkFactory, cfg *config.Config, limiter RateLimiter, rng games.RNG) *Core {
	c := newLedgerCore(uowFactory, cfg, limiter, rng)
	rounds := NewRoundRegistry(c)
	c.exposure = rounds

	return &Core{
		Ledger:   &ledgerHandler{core: c},
		Wagers:   &wagerHandler{core: c},
		Rounds:   rounds,
		Economy:  &economyHandler{core: c},
		Codes:    &codeHandler{core: c},
		Settings: &settingsHandler{core: c},
	}
}

// ledgerCore holds what every use-case needs to open a transaction
type ledgerCore struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config
	defaults   entities.EffectiveSettings
	limiter    RateLimiter
	rng        games.RNG
	exposure   interfaces.ExposureTracker
	now        func() time.Time
}

func newLedgerCore(uowFactory UnitOfWorkFactory, cfg *config.Config, limiter RateLimiter, rng games.RNG) *ledgerCore {
	if rng == nil {
		rng = games.NewRNG()
	}
	return &ledgerCore{
		uowFactory: uowFactory,
		cfg:        cfg,
		defaults:   services.DefaultSettings(cfg),
		limiter:    limiter,
		rng:        rng,
		now:        time.Now,
	}
}

// serviceSet is the domain services bound to one unit of work
type serviceSet struct {
	settings  interfaces.SettingsService
	ledger    interfaces.LedgerService
	wagers    interfaces.WagerService
	daily     interfaces.DailyService
	transfers interfaces.TransferService
	codes     interfaces.RedeemService
}

func (c *ledgerCore) services(uow UnitOfWork, guildID int64) serviceSet {
	settings := services.NewSettingsService(guildID, uow.GuildSettingsRepository(), c.defaults)
	ledger := services.NewLedgerService(
		guildID,
		uow.AccountRepository(),
		uow.HistoryRepository(),
		uow.StatsRepository(),
		uow.EventBus(),
		c.exposure,
	)

	return serviceSet{
		settings:  settings,
		ledger:    ledger,
		wagers:    services.NewWagerService(guildID, ledger, settings, uow.StatsRepository(), uow.EventBus()),
		daily:     services.NewDailyService(guildID, ledger, settings, uow.DailyClaimRepository(), uow.EventBus(), c.cfg.DailyCooldown),
		transfers: services.NewTransferService(ledger, settings),
		codes:     services.NewRedeemService(guildID, ledger, settings, uow.RedeemCodeRepository(), uow.EventBus()),
	}
}

// run executes fn in a fresh transaction, retrying the whole transaction on
// transient persistence failures. fn must be safe to run more than once.
func (c *ledgerCore) run(ctx context.Context, guildID int64, fn func(ctx context.Context, uow UnitOfWork, s serviceSet) error) error {
	return apperr.WithRetry(ctx, func() error {
		uow := c.uowFactory.CreateForGuild(guildID)
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		if err := fn(ctx, uow, c.services(uow, guildID)); err != nil {
			return err
		}
		return uow.Commit()
	})
}

// checkRate consumes one wager slot for the actor. A limiter outage lets the wager through.
func (c *ledgerCore) checkRate(ctx context.Context, actor entities.Actor) error {
	if c.limiter == nil {
		return nil
	}
	key := fmt.Sprintf("wager:%d:%d", actor.GuildID, actor.UserID)
	allowed, retryAfter, err := c.limiter.Allow(ctx, key)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("Rate limiter unavailable, allowing wager")
		return nil
	}
	if !allowed {
		observability.GetMetrics().RecordRateLimited()
		return apperr.Cooldown(apperr.ReasonRateLimited, retryAfter,
			"slow down, you can wager again in %s", utils.FormatWait(retryAfter))
	}
	return nil
}
