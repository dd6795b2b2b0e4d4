package metrics

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
)

const MeterName = "github.com/DanielPopoola/idempotency-gateway"

type Metrics struct {
	admissionsTotal metric.Int64Counter
	storeDuration   metric.Float64Histogram
}

var _ ports.AdmissionRecorder = (*Metrics)(nil)

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.admissionsTotal, err = meter.Int64Counter(
		"idempotency_admissions_total",
		metric.WithDescription("Admission decisions by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create idempotency_admissions_total counter: %w", err)
	}

	m.storeDuration, err = meter.Float64Histogram(
		"idempotency_store_duration_seconds",
		metric.WithDescription("Latency of the set-if-absent round trip"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create idempotency_store_duration_seconds histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordAdmission(ctx context.Context, outcome domain.Outcome) {
	m.admissionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", strings.ToLower(string(outcome))),
	))
}

func (m *Metrics) RecordStoreDuration(ctx context.Context, store string, seconds float64) {
	m.storeDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("store", store),
	))
}
