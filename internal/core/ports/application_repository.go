package ports

import (
	"context"

	"marketplace/internal/core/domain/model/application"
	"marketplace/internal/core/domain/model/kernel"
)

// ApplicationRepository defines the persistence contract for helper
// application aggregates.
type ApplicationRepository interface {
	// Add persists a new application aggregate.
	Add(ctx context.Context, aggregate *application.Application) error

	// Update persists changes to an existing application aggregate,
	// including the rate snapshot frozen at selection time.
	Update(ctx context.Context, aggregate *application.Application) error

	// Get retrieves an application by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*application.Application, error)

	// GetByOrderAndHelper retrieves the application a specific helper filed
	// for a specific order.
	GetByOrderAndHelper(ctx context.Context, orderID, helperID kernel.UUID) (*application.Application, error)
}
