package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitMeterProvider initializes the Prometheus exporter and MeterProvider.
// It returns an http.Handler for the /metrics endpoint and a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource(serviceName, serviceVersion)),
	)
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

func newResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}

// Metrics holds the business counters recorded by the services
type Metrics struct {
	CartMutations metric.Int64Counter
	OrdersCreated metric.Int64Counter
	StatusChanges metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	cart, err := meter.Int64Counter("cravecart_cart_mutations",
		metric.WithDescription("Cart add, remove and clear operations"))
	if err != nil {
		return nil, err
	}
	created, err := meter.Int64Counter("cravecart_orders_created",
		metric.WithDescription("Orders placed"))
	if err != nil {
		return nil, err
	}
	status, err := meter.Int64Counter("cravecart_order_status_changes",
		metric.WithDescription("Order status transitions"))
	if err != nil {
		return nil, err
	}
	return &Metrics{CartMutations: cart, OrdersCreated: created, StatusChanges: status}, nil
}

// NopMetrics returns counters that record nothing
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}
