package queries

import (
	"context"
)

// GetNextStatusesQueryHandler answers transition lookups from the in-memory
// status registry. No storage is involved; the graph is code.
type GetNextStatusesQueryHandler struct{}

// NewGetNextStatusesQueryHandler creates a handler for transition lookups.
func NewGetNextStatusesQueryHandler() GetNextStatusesQueryHandler {
	return GetNextStatusesQueryHandler{}
}

// Handle returns the forward and recovery options for the queried status.
func (h GetNextStatusesQueryHandler) Handle(
	_ context.Context,
	query GetNextStatusesQuery,
) (GetNextStatusesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetNextStatusesQueryResponse{}, err
	}

	status := query.Status()
	return GetNextStatusesQueryResponse{
		Status:          status,
		NextStatuses:    status.NextValidStatuses(),
		RecoveryOptions: status.RecoveryOptions(),
		Terminal:        status.IsTerminal(),
		Unknown:         status.IsUnknown(),
	}, nil
}
