package queries

import (
	"context"
	"database/sql"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves non-terminal orders straight from the
// database, bypassing aggregate rehydration on the read path.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query. Orders in closed or cancelled status are
// excluded; results are sorted by ID for consistent output.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			requester_id,
			helper_id,
			status
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY id
	`, order.Closed.String(), order.Cancelled.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, requesterID uuid.UUID
		var helperID sql.NullString
		var status string

		if err = rows.Scan(&id, &requesterID, &helperID, &status); err != nil {
			return nil, err
		}

		resp, respErr := buildActiveOrderResponse(id, requesterID, helperID, status)
		if respErr != nil {
			return nil, respErr
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func buildActiveOrderResponse(
	id, requesterID uuid.UUID,
	helperID sql.NullString,
	status string,
) (GetActiveOrdersQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetActiveOrdersQueryResponse{}, err
	}
	requester, err := kernel.UUIDFromBytes(requesterID[:])
	if err != nil {
		return GetActiveOrdersQueryResponse{}, err
	}

	resp := GetActiveOrdersQueryResponse{
		ID:          orderID,
		RequesterID: requester,
		Status:      order.Normalize(status),
	}

	if helperID.Valid {
		helper, helperErr := kernel.UUIDFromString(helperID.String)
		if helperErr != nil {
			return GetActiveOrdersQueryResponse{}, helperErr
		}
		resp.HelperID = &helper
	}

	return resp, nil
}
