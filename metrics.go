package eventkit

import (
	"context"
	"maps"
	"slices"
	"time"
)

// Metric starts building a CloudWatch metric with the given name. The metric
// is written in embedded metric format when Value is called, using the
// namespace from the METRIC_NAMESPACE environment variable.
func Metric(ctx context.Context, metricName string) *MetricBuilder {
	return &MetricBuilder{
		ctx:  ctx,
		name: metricName,
	}
}

type MetricBuilder struct {
	ctx        context.Context
	name       string
	dimensions map[string]any
	unit       *string
}

func (m *MetricBuilder) Dimension(key string, value any) *MetricBuilder {
	if m.dimensions == nil {
		m.dimensions = make(map[string]any)
	}
	m.dimensions[key] = value
	return m
}

func (m *MetricBuilder) Unit(value string) *MetricBuilder {
	m.unit = &value
	return m
}

// Value records the metric value and emits the metric as a single log line.
// CloudWatch parses the embedded metric format from the _aws field; the
// metric value and any dimension values must appear as top-level fields of
// the same line.
func (m *MetricBuilder) Value(value any) {
	logger := GetLogger(m.ctx)

	dimensions := make([][]string, 0, 1)
	args := make([]any, 0, 2*(len(m.dimensions)+2))

	if len(m.dimensions) > 0 {
		//Sort so that repeated emissions produce identical dimension sets
		dimKeys := slices.Sorted(maps.Keys(m.dimensions))
		for _, k := range dimKeys {
			args = append(args, k, m.dimensions[k])
		}
		dimensions = append(dimensions, dimKeys)
	}

	awsMetrics := cwMetrics{
		Metrics: []cwMetricOuter{{
			Namespace:  GetEnv("METRIC_NAMESPACE"),
			Dimensions: dimensions,
			Metrics: []cwMetricInner{{
				Name: m.name,
				Unit: m.unit,
			}},
		}},
		Timestamp: time.Now().UnixMilli(),
	}

	args = append(args, m.name, value)
	args = append(args, "_aws", awsMetrics)
	logger.Info("metric", args...)
}

type cwMetrics struct {
	Metrics   []cwMetricOuter `json:"CloudWatchMetrics"`
	Timestamp int64           `json:"Timestamp"`
}

type cwMetricOuter struct {
	Namespace  string          `json:"Namespace"`
	Dimensions [][]string      `json:"Dimensions"`
	Metrics    []cwMetricInner `json:"Metrics"`
}

type cwMetricInner struct {
	Name              string  `json:"Name"`
	Unit              *string `json:"Unit,omitempty"`
	StorageResolution *int    `json:"StorageResolution,omitempty"`
}
