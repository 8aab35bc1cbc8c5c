package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guildledger/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the ledger
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	wagersSettledCounter       metric.Int64Counter
	wagersRateLimitedCounter   metric.Int64Counter
	roundsOpenGauge            metric.Int64UpDownCounter
	roundTimeoutsCounter       metric.Int64Counter
	balanceTransactionsCounter metric.Int64Counter
	codeRedemptionsCounter     metric.Int64Counter
	natsPublishedCounter       metric.Int64Counter
	transactionDurationHist    metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("guildledger")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// UseMeter creates the instruments on an existing meter, bypassing exporter setup
func (mp *MetricsProvider) UseMeter(meter metric.Meter) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.meter = meter
	if err := mp.createInstruments(); err != nil {
		return err
	}
	mp.initialized = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.wagersSettledCounter, err = mp.meter.Int64Counter(
		WagersSettledTotal,
		metric.WithDescription("Total number of settled wagers"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers settled counter: %w", err)
	}

	mp.wagersRateLimitedCounter, err = mp.meter.Int64Counter(
		WagersRateLimited,
		metric.WithDescription("Total number of wagers rejected by the rate limiter"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limited counter: %w", err)
	}

	// UpDownCounter for gauge-like behavior
	mp.roundsOpenGauge, err = mp.meter.Int64UpDownCounter(
		RoundsOpen,
		metric.WithDescription("Current number of open live rounds"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create open rounds gauge: %w", err)
	}

	mp.roundTimeoutsCounter, err = mp.meter.Int64Counter(
		RoundTimeoutsTotal,
		metric.WithDescription("Total number of live rounds settled by timeout"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create round timeouts counter: %w", err)
	}

	mp.balanceTransactionsCounter, err = mp.meter.Int64Counter(
		BalanceTransactionsTotal,
		metric.WithDescription("Total number of balance mutations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create balance transactions counter: %w", err)
	}

	mp.codeRedemptionsCounter, err = mp.meter.Int64Counter(
		CodeRedemptionsTotal,
		metric.WithDescription("Total number of redeem attempts by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create code redemptions counter: %w", err)
	}

	mp.natsPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	mp.transactionDurationHist, err = mp.meter.Float64Histogram(
		TransactionDuration,
		metric.WithDescription("Duration of ledger transactions in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordWagerSettled counts a settled wager by game and result
func (mp *MetricsProvider) RecordWagerSettled(game, result string) {
	if !mp.isEnabled() {
		return
	}
	mp.wagersSettledCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelGame, game),
			attribute.String(LabelResult, result),
		),
	)
}

// RecordRateLimited counts a wager rejected by the rate limiter
func (mp *MetricsProvider) RecordRateLimited() {
	if !mp.isEnabled() {
		return
	}
	mp.wagersRateLimitedCounter.Add(context.Background(), 1)
}

// UpdateOpenRounds moves the open round gauge for a game
func (mp *MetricsProvider) UpdateOpenRounds(game string, delta int64) {
	if !mp.isEnabled() {
		return
	}
	mp.roundsOpenGauge.Add(context.Background(), delta,
		metric.WithAttributes(attribute.String(LabelGame, game)),
	)
}

// RecordRoundTimeout counts a round settled by its idle timer
func (mp *MetricsProvider) RecordRoundTimeout(game string) {
	if !mp.isEnabled() {
		return
	}
	mp.roundTimeoutsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelGame, game)),
	)
}

// RecordBalanceTransaction counts a balance mutation by type
func (mp *MetricsProvider) RecordBalanceTransaction(transactionType string) {
	if !mp.isEnabled() {
		return
	}
	mp.balanceTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, transactionType)),
	)
}

// RecordRedemption counts a redeem attempt; outcome is "success" or the failure reason
func (mp *MetricsProvider) RecordRedemption(outcome string) {
	if !mp.isEnabled() {
		return
	}
	mp.codeRedemptionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelOutcome, outcome)),
	)
}

// RecordNATSMessagePublished counts a message published to NATS
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordTransaction records how long a unit of work stayed open
func (mp *MetricsProvider) RecordTransaction(outcome string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}
	mp.transactionDurationHist.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(attribute.String(LabelOutcome, outcome)),
	)
}

// isEnabled reports whether instruments exist to record into
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider; nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
