package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetSettlementQueryIsNotConstructed = errors.New(
	"GetSettlementQuery must be created via NewGetSettlementQuery constructor",
)

// GetSettlementQuery retrieves the persisted settlement figures for an
// order. The read answers from the stored row: amounts frozen at computation
// time, never recomputed from the closing report.
type GetSettlementQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSettlementQuery creates a settlement lookup for the given order.
func NewGetSettlementQuery(orderID kernel.UUID) (GetSettlementQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetSettlementQuery{}, err
	}
	return GetSettlementQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetSettlementQuery) Validate() error {
	return q.guard.Validate(ErrGetSettlementQueryIsNotConstructed)
}

// OrderID returns the order whose settlement is requested.
func (q GetSettlementQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetSettlementQueryResponse is the persisted settlement row. All amounts
// are minor currency units; rates are permille.
type GetSettlementQueryResponse struct {
	SettlementID   kernel.UUID
	OrderID        kernel.UUID
	HelperID       kernel.UUID
	RateTotal      int
	RateSource     string
	SupplyAmount   int64
	VATAmount      int64
	TotalAmount    int64
	DepositAmount  int64
	BalanceAmount  int64
	PlatformFee    int64
	DeductionTotal int64
	NetAmount      int64
	Status         string
}
