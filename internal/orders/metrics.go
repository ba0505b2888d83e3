package orders

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

type placementMetrics struct {
	placedCount   metric.Int64Counter
	rejectedCount metric.Int64Counter
	unitsSold     metric.Int64Counter
}

func newPlacementMetrics() *placementMetrics {
	meter := otel.Meter("github.com/joao-fontenele/commerce-api/internal/orders")

	return &placementMetrics{
		placedCount:   counter(meter, "orders.placed", "Orders successfully placed"),
		rejectedCount: counter(meter, "orders.rejected", "Order placements rejected, by reason"),
		unitsSold:     counter(meter, "orders.items", "Product units sold through placed orders"),
	}
}

func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (m *placementMetrics) placed(ctx context.Context, order *domain.Order) {
	m.placedCount.Add(ctx, 1)

	var units int64
	for _, l := range order.Lines {
		units += int64(l.Quantity)
	}
	m.unitsSold.Add(ctx, units)
}

func (m *placementMetrics) rejected(ctx context.Context, err error) {
	m.rejectedCount.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", rejectionReason(err))))
}
