package infrastructure

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

// Metrics holds the HTTP and pricing instruments.
type Metrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	ForwardCalculations metric.Int64Counter
	QuoteCompositions   metric.Int64Counter
	SwapPointUploads    metric.Int64Counter
	SwapPointRows       metric.Int64Counter
	HolidayReloads      metric.Int64Counter
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.ForwardCalculations, err = meter.Int64Counter(
		"forward_calculations_total",
		metric.WithDescription("Forward rate calculations by outcome"),
	); err != nil {
		return nil, err
	}

	if m.QuoteCompositions, err = meter.Int64Counter(
		"quote_compositions_total",
		metric.WithDescription("Customer rate compositions by product and outcome"),
	); err != nil {
		return nil, err
	}

	if m.SwapPointUploads, err = meter.Int64Counter(
		"swap_point_uploads_total",
		metric.WithDescription("Swap point file uploads by outcome"),
	); err != nil {
		return nil, err
	}

	if m.SwapPointRows, err = meter.Int64Counter(
		"swap_point_rows_total",
		metric.WithDescription("Swap point rows accepted from uploads"),
	); err != nil {
		return nil, err
	}

	if m.HolidayReloads, err = meter.Int64Counter(
		"holiday_reloads_total",
		metric.WithDescription("Holiday table reloads by outcome"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(metricnoop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordForwardCalculation counts a forward calculation. An empty outcome means success.
func (m *Metrics) RecordForwardCalculation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.ForwardCalculations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcomeOrOK(outcome)),
	))
}

// RecordQuoteComposition counts a customer rate composition.
func (m *Metrics) RecordQuoteComposition(ctx context.Context, product, outcome string) {
	if m == nil {
		return
	}
	m.QuoteCompositions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product", product),
		attribute.String("outcome", outcomeOrOK(outcome)),
	))
}

// RecordSwapPointUpload counts an upload and the rows it stored.
func (m *Metrics) RecordSwapPointUpload(ctx context.Context, outcome string, rows int) {
	if m == nil {
		return
	}
	m.SwapPointUploads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcomeOrOK(outcome)),
	))
	if rows > 0 {
		m.SwapPointRows.Add(ctx, int64(rows))
	}
}

// RecordHolidayReload counts a holiday table reload.
func (m *Metrics) RecordHolidayReload(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.HolidayReloads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcomeOrOK(outcome)),
	))
}

func outcomeOrOK(outcome string) string {
	if outcome == "" {
		return "ok"
	}
	return outcome
}
