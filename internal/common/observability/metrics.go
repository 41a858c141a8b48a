package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	saveCounter     otelmetric.Int64Counter
	saveDuration    otelmetric.Float64Histogram
	sessionCounter  otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	saveCounter, _ := meter.Int64Counter(
		"wizard.saves.processed",
		otelmetric.WithDescription("Number of autosave writes processed"),
	)

	saveDuration, _ := meter.Float64Histogram(
		"wizard.saves.duration",
		otelmetric.WithDescription("Autosave write duration"),
		otelmetric.WithUnit("ms"),
	)

	sessionCounter, _ := meter.Int64Counter(
		"wizard.sessions.opened",
		otelmetric.WithDescription("Number of wizard sessions opened"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		saveCounter:    saveCounter,
		saveDuration:   saveDuration,
		sessionCounter: sessionCounter,
	}
}

func (o *Observability) RecordSave(ctx context.Context, channel, status string) {
	if o.saveCounter != nil {
		o.saveCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("channel", channel),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordSaveDuration(ctx context.Context, duration time.Duration, channel string) {
	if o.saveDuration != nil {
		o.saveDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("channel", channel),
		))
	}
}

func (o *Observability) RecordSessionOpened(ctx context.Context) {
	if o.sessionCounter != nil {
		o.sessionCounter.Add(ctx, 1)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
