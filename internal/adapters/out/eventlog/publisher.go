// Package eventlog is the in-process event sink: committed lifecycle and
// settlement changes are logged structurally and counted in Prometheus
// metrics. Downstream delivery (push, SMS, email) hangs off these events in
// other services and is out of scope here.
package eventlog

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
)

// Publisher implements ports.EventPublisher. Publishing never fails: by the
// time an event is published the operation has committed, and a lost metric
// must not undo a business transaction.
type Publisher struct {
	log               *slog.Logger
	statusTransitions *prometheus.CounterVec
	settlementEvents  *prometheus.CounterVec
}

// NewPublisher creates a publisher registering its metrics with the given
// registerer.
func NewPublisher(log *slog.Logger, reg prometheus.Registerer) *Publisher {
	p := &Publisher{
		log: log,
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_order_status_transitions_total",
			Help: "Committed order status transitions by source and target status.",
		}, []string{"from", "to"}),
		settlementEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_settlement_events_total",
			Help: "Committed settlement changes by event kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(p.statusTransitions, p.settlementEvents)
	return p
}

// PublishOrderStatusChanged reports a committed order status transition.
func (p *Publisher) PublishOrderStatusChanged(_ context.Context, orderID kernel.UUID, from, to order.Status) {
	p.log.Info("order status changed",
		"order_id", orderID.String(),
		"from", from.String(),
		"to", to.String(),
	)
	p.statusTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// PublishSettlementChanged reports a committed settlement change.
func (p *Publisher) PublishSettlementChanged(
	_ context.Context,
	settlementID, orderID kernel.UUID,
	kind string,
	netAmount int64,
) {
	p.log.Info("settlement changed",
		"settlement_id", settlementID.String(),
		"order_id", orderID.String(),
		"kind", kind,
		"net_amount", netAmount,
	)
	p.settlementEvents.WithLabelValues(kind).Inc()
}
