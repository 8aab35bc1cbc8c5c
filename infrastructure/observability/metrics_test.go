package observability

import (
	"context"
	"testing"
	"time"

	"guildledger/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = meterProvider.Shutdown(context.Background()) })

	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.UseMeter(meterProvider.Meter("test")))
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, key, value string) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	for _, dp := range sum.DataPoints {
		if v, found := dp.Attributes.Value(attribute.Key(key)); found && v.AsString() == value {
			return dp.Value
		}
	}
	return 0
}

func TestMetricsProvider_RecordsCounters(t *testing.T) {
	mp, reader := newTestProvider(t)

	mp.RecordWagerSettled("coinflip", "win")
	mp.RecordWagerSettled("coinflip", "win")
	mp.RecordWagerSettled("dice", "loss")
	mp.RecordBalanceTransaction("daily")
	mp.RecordRedemption(OutcomeSuccess)
	mp.RecordRedemption("code_expired")
	mp.RecordRoundTimeout("crash")
	mp.UpdateOpenRounds("blackjack", 1)
	mp.UpdateOpenRounds("blackjack", 1)
	mp.UpdateOpenRounds("blackjack", -1)

	metrics := collect(t, reader)

	assert.Equal(t, int64(2), sumFor(t, metrics[WagersSettledTotal], LabelGame, "coinflip"))
	assert.Equal(t, int64(1), sumFor(t, metrics[WagersSettledTotal], LabelGame, "dice"))
	assert.Equal(t, int64(1), sumFor(t, metrics[BalanceTransactionsTotal], LabelType, "daily"))
	assert.Equal(t, int64(1), sumFor(t, metrics[CodeRedemptionsTotal], LabelOutcome, OutcomeSuccess))
	assert.Equal(t, int64(1), sumFor(t, metrics[CodeRedemptionsTotal], LabelOutcome, "code_expired"))
	assert.Equal(t, int64(1), sumFor(t, metrics[RoundTimeoutsTotal], LabelGame, "crash"))
	assert.Equal(t, int64(1), sumFor(t, metrics[RoundsOpen], LabelGame, "blackjack"))
}

func TestMetricsProvider_TransactionHistogram(t *testing.T) {
	mp, reader := newTestProvider(t)

	mp.RecordTransaction(OutcomeCommit, 20*time.Millisecond)
	mp.RecordTransaction(OutcomeRollback, 5*time.Millisecond)

	metrics := collect(t, reader)
	hist, ok := metrics[TransactionDuration].(metricdata.Histogram[float64])
	require.True(t, ok)

	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(2), total)
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	var nilProvider *MetricsProvider
	assert.NotPanics(t, func() {
		nilProvider.RecordWagerSettled("coinflip", "win")
		nilProvider.RecordRateLimited()
	})

	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.Initialize(context.Background()))
	assert.NotPanics(t, func() {
		mp.RecordBalanceTransaction("grant")
		mp.RecordTransaction(OutcomeCommit, time.Millisecond)
	})
	assert.NoError(t, mp.Shutdown(context.Background()))
}
