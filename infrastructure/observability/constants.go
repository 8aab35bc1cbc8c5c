package observability

// Metric name prefixes
const (
	MetricPrefix = "guildledger"
)

// Metric names
const (
	// Wager metrics
	WagersSettledTotal = MetricPrefix + ".wagers.settled_total"
	WagersRateLimited  = MetricPrefix + ".wagers.rate_limited_total"

	// Live round metrics
	RoundsOpen         = MetricPrefix + ".rounds.open"
	RoundTimeoutsTotal = MetricPrefix + ".rounds.timeouts_total"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Redeem code metrics
	CodeRedemptionsTotal = MetricPrefix + ".codes.redemptions_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	TransactionDuration = MetricPrefix + ".database.transaction_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelGame      = "game"
	LabelResult    = "result"
	LabelOutcome   = "outcome"
	LabelEventType = "event_type"
)

// Transaction outcomes
const (
	OutcomeCommit   = "commit"
	OutcomeRollback = "rollback"
	OutcomeSuccess  = "success"
)
