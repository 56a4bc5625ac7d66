package labeling

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/tnqbao/gau-image-labeler/labeling"

type pipelineMetrics struct {
	events   metric.Int64Counter
	duration metric.Float64Histogram
}

func newPipelineMetrics() *pipelineMetrics {
	meter := otel.Meter(instrumentationName)

	events, err := meter.Int64Counter("labeler.events",
		metric.WithDescription("Upload events handled by the labeling pipeline, by outcome"))
	if err != nil {
		events = noop.Int64Counter{}
	}

	duration, err := meter.Float64Histogram("labeler.process.duration",
		metric.WithDescription("Time spent labeling one upload event"),
		metric.WithUnit("s"))
	if err != nil {
		duration = noop.Float64Histogram{}
	}

	return &pipelineMetrics{events: events, duration: duration}
}

func (m *pipelineMetrics) record(ctx context.Context, outcome Outcome, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	m.events.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
