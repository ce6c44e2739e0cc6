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
	meterProvider    *metric.MeterProvider
	meter            otelmetric.Meter
	sessionEvents    otelmetric.Int64Counter
	checkoutDuration otelmetric.Float64Histogram
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

	sessionEvents, _ := meter.Int64Counter(
		"session.events",
		otelmetric.WithDescription("Number of session lifecycle events"),
	)

	checkoutDuration, _ := meter.Float64Histogram(
		"checkout.duration",
		otelmetric.WithDescription("Checkout attempt duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:    provider,
		meter:            meter,
		sessionEvents:    sessionEvents,
		checkoutDuration: checkoutDuration,
	}
}

func (o *Observability) RecordSessionEvent(ctx context.Context, event string) {
	if o.sessionEvents != nil {
		o.sessionEvents.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("event", event),
		))
	}
}

func (o *Observability) RecordCheckoutDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o.checkoutDuration != nil {
		o.checkoutDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
