package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// Settlement event kinds reported to the event sink.
const (
	SettlementEventCreated           = "created"
	SettlementEventConfirmed         = "confirmed"
	SettlementEventPayable           = "payable"
	SettlementEventPaid              = "paid"
	SettlementEventDeductionApplied  = "deduction_applied"
	SettlementEventDeductionReversed = "deduction_reversed"
)

// EventPublisher is the sink for status-change and settlement-change events.
// Downstream delivery (push, SMS, email) is outside the core; publishing is
// fire-and-forget and must never fail a committed operation.
type EventPublisher interface {
	// PublishOrderStatusChanged reports a committed order status transition.
	PublishOrderStatusChanged(ctx context.Context, orderID kernel.UUID, from, to order.Status)

	// PublishSettlementChanged reports a committed settlement change of the
	// given kind, with the settlement's net amount after the change.
	PublishSettlementChanged(ctx context.Context, settlementID, orderID kernel.UUID, kind string, netAmount int64)
}
