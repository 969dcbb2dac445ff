package eventkit

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetric(t *testing.T) {
	t.Setenv("METRIC_NAMESPACE", "app/test")

	t.Run("emits an embedded metric format line", func(t *testing.T) {
		ctx, buf := captureLogger(slog.LevelInfo)

		Metric(ctx, "ThingsProcessed").Dimension("group", "a").Unit("Count").Value(12)

		lines := logLines(t, buf)
		require.Len(t, lines, 1)
		line := lines[0]

		assert.Equal(t, "metric", line["msg"])
		assert.Equal(t, 12.0, line["ThingsProcessed"])
		assert.Equal(t, "a", line["group"])

		aws, ok := line["_aws"].(map[string]any)
		require.True(t, ok)
		assert.NotZero(t, aws["Timestamp"])

		metrics, ok := aws["CloudWatchMetrics"].([]any)
		require.True(t, ok)
		require.Len(t, metrics, 1)

		outer, ok := metrics[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "app/test", outer["Namespace"])
		assert.Equal(t, []any{[]any{"group"}}, outer["Dimensions"])
		assert.Equal(t, []any{map[string]any{"Name": "ThingsProcessed", "Unit": "Count"}}, outer["Metrics"])
	})

	t.Run("metric without dimensions or unit", func(t *testing.T) {
		ctx, buf := captureLogger(slog.LevelInfo)

		Metric(ctx, "Failures").Value(0)

		lines := logLines(t, buf)
		require.Len(t, lines, 1)
		line := lines[0]

		assert.Equal(t, 0.0, line["Failures"])

		aws := line["_aws"].(map[string]any)
		outer := aws["CloudWatchMetrics"].([]any)[0].(map[string]any)
		assert.Equal(t, []any{}, outer["Dimensions"])
		assert.Equal(t, []any{map[string]any{"Name": "Failures"}}, outer["Metrics"])
	})

	t.Run("dimension keys are emitted in sorted order", func(t *testing.T) {
		ctx, buf := captureLogger(slog.LevelInfo)

		Metric(ctx, "Latency").
			Dimension("route", "/things").
			Dimension("method", "GET").
			Unit("Milliseconds").
			Value(38)

		lines := logLines(t, buf)
		require.Len(t, lines, 1)

		aws := lines[0]["_aws"].(map[string]any)
		outer := aws["CloudWatchMetrics"].([]any)[0].(map[string]any)
		assert.Equal(t, []any{[]any{"method", "route"}}, outer["Dimensions"])
	})
}
