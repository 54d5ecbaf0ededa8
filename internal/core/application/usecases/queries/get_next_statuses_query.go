package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetNextStatusesQueryIsNotConstructed = errors.New(
	"GetNextStatusesQuery must be created via NewGetNextStatusesQuery constructor",
)

// GetNextStatusesQuery asks which transitions are available from a status.
// Raw input is accepted and normalized, so clients can pass stored legacy
// values directly.
type GetNextStatusesQuery struct { //nolint:recvcheck //using for validation
	status order.Status

	guard guard.ConstructorGuard
}

// NewGetNextStatusesQuery creates a transition lookup for the given raw
// status string.
func NewGetNextStatusesQuery(rawStatus string) GetNextStatusesQuery {
	return GetNextStatusesQuery{
		status: order.Normalize(rawStatus),
		guard:  guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q GetNextStatusesQuery) Validate() error {
	return q.guard.Validate(ErrGetNextStatusesQueryIsNotConstructed)
}

// Status returns the normalized status being inspected.
func (q GetNextStatusesQuery) Status() order.Status {
	return q.status
}

// GetNextStatusesQueryResponse lists the forward transitions and the admin
// recovery targets for a status. Both are empty for terminal and unknown
// statuses.
type GetNextStatusesQueryResponse struct {
	Status          order.Status
	NextStatuses    []order.Status
	RecoveryOptions []order.Status
	Terminal        bool
	Unknown         bool
}
