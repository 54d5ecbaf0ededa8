package queries

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSettlementQueryHandler retrieves a settlement row by order.
type GetSettlementQueryHandler struct {
	db *gorm.DB
}

// NewGetSettlementQueryHandler creates a handler for settlement lookups.
func NewGetSettlementQueryHandler(db *gorm.DB) GetSettlementQueryHandler {
	return GetSettlementQueryHandler{db: db}
}

// Handle executes the lookup. A missing row, meaning no closing report has
// been submitted for the order yet, is an ObjectNotFoundError.
func (h GetSettlementQueryHandler) Handle(
	ctx context.Context,
	query GetSettlementQuery,
) (GetSettlementQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSettlementQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			helper_id,
			rate_total_permille,
			rate_source,
			supply_amount,
			vat_amount,
			total_amount,
			deposit_amount,
			balance_amount,
			platform_fee,
			deduction_total,
			net_amount,
			status
		FROM settlements
		WHERE order_id = ?
	`, query.OrderID().String()).Row()

	var id, orderID, helperID uuid.UUID
	var resp GetSettlementQueryResponse

	err := row.Scan(
		&id, &orderID, &helperID,
		&resp.RateTotal, &resp.RateSource,
		&resp.SupplyAmount, &resp.VATAmount, &resp.TotalAmount,
		&resp.DepositAmount, &resp.BalanceAmount,
		&resp.PlatformFee, &resp.DeductionTotal, &resp.NetAmount,
		&resp.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetSettlementQueryResponse{}, errs.NewObjectNotFoundError("order_id", query.OrderID())
	}
	if err != nil {
		return GetSettlementQueryResponse{}, err
	}

	if resp.SettlementID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetSettlementQueryResponse{}, err
	}
	if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return GetSettlementQueryResponse{}, err
	}
	if resp.HelperID, err = kernel.UUIDFromBytes(helperID[:]); err != nil {
		return GetSettlementQueryResponse{}, err
	}

	return resp, nil
}
