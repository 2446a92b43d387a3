package diagnostic

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const failuresMetric = "backendclient.failures"

// MetricSink counts records per class and status.
type MetricSink struct {
	failures metric.Int64Counter
}

// NewMetricSink creates the failure counter on meter.
func NewMetricSink(meter metric.Meter) (*MetricSink, error) {
	counter, err := meter.Int64Counter(failuresMetric,
		metric.WithDescription("Failed backend calls by diagnostic class"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", failuresMetric, err)
	}
	return &MetricSink{failures: counter}, nil
}

// Emit implements Sink.
func (s *MetricSink) Emit(ctx context.Context, rec Record) {
	status := "none"
	if rec.HasResponse() {
		status = strconv.Itoa(rec.StatusCode)
	}
	s.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("class", rec.Class.String()),
		attribute.String("status", status),
		attribute.String("method", rec.Method),
	))
}
