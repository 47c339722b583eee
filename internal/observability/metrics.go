// Package observability provides OpenTelemetry instrumentation for tracing and metrics.
package observability

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics initializes the OpenTelemetry metrics provider with a Prometheus exporter.
// It returns the HTTP handler for the /metrics endpoint and a shutdown function.
// The shutdown function should be called on application exit for graceful cleanup.
func InitMetrics() (http.Handler, func(context.Context) error, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), provider.Shutdown, nil
}

// Placement outcomes recorded by DispatchMetrics.
const (
	OutcomeCommitted            = "committed"
	OutcomeConfirmationRequired = "confirmation_required"
	OutcomeConflict             = "conflict"
	OutcomeFailed               = "failed"
)

// DispatchMetrics holds the instruments of the dispatch API.
type DispatchMetrics struct {
	placements   metric.Int64Counter
	jobsCreated  metric.Int64Counter
	shiftsIssued metric.Int64Counter
}

// NewDispatchMetrics creates the instruments on the global meter provider.
// Call it after InitMetrics so the instruments are exported.
func NewDispatchMetrics() (*DispatchMetrics, error) {
	meter := otel.Meter("dispatchboard-controller")

	placements, err := meter.Int64Counter("dispatch.placements",
		metric.WithDescription("Placement writes by outcome"))
	if err != nil {
		return nil, err
	}
	jobsCreated, err := meter.Int64Counter("dispatch.jobs.created",
		metric.WithDescription("Jobs booked"))
	if err != nil {
		return nil, err
	}
	shiftsIssued, err := meter.Int64Counter("dispatch.shifts.created",
		metric.WithDescription("Per-day shift records materialised"))
	if err != nil {
		return nil, err
	}

	return &DispatchMetrics{
		placements:   placements,
		jobsCreated:  jobsCreated,
		shiftsIssued: shiftsIssued,
	}, nil
}

// Placement counts one placement attempt. Safe on a nil receiver.
func (m *DispatchMetrics) Placement(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.placements.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// JobCreated counts one booked job. Safe on a nil receiver.
func (m *DispatchMetrics) JobCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.jobsCreated.Add(ctx, 1)
}

// ShiftsCreated counts materialised shift records. Safe on a nil receiver.
func (m *DispatchMetrics) ShiftsCreated(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.shiftsIssued.Add(ctx, int64(n))
}
