package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"guildledger/application"
	"guildledger/config"
	"guildledger/database"
	"guildledger/domain/entities"
	"guildledger/domain/games"
	"guildledger/infrastructure"
	"guildledger/infrastructure/ratelimit"
)

// Grant credits a member directly, bypassing Discord. Meant for operators
// seeding or repairing balances; no events are published.
func Grant(ctx context.Context, guildArg, userArg, amountArg string) error {
	guildID, err := strconv.ParseInt(guildArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid guild id %q: %w", guildArg, err)
	}
	userID, err := strconv.ParseInt(userArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userArg, err)
	}
	amount, err := strconv.ParseInt(amountArg, 10, 64)
	if err != nil || amount == 0 {
		return fmt.Errorf("invalid amount %q", amountArg)
	}

	cfg := config.Get()
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	factory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	core := application.NewCore(factory, cfg, ratelimit.Unlimited{}, games.NewRNG())

	balance, err := core.Ledger.ApplyDelta(ctx, guildID, userID, amount, entities.LedgerChange{
		Type:     entities.TransactionTypeGrant,
		Metadata: map[string]any{"source": "cli"},
	})
	if err != nil {
		return fmt.Errorf("failed to apply grant: %w", err)
	}

	log.Printf("Granted %d to user %d in guild %d, new balance %d", amount, userID, guildID, balance)
	return nil
}
