package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Every status
// transition commits atomically with its accompanying settlement and ledger
// writes: a transition is never partially visible.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// ApplicationRepository returns an ApplicationRepository bound to the
	// current transaction.
	ApplicationRepository() ApplicationRepository

	// SettlementRepository returns a SettlementRepository bound to the
	// current transaction.
	SettlementRepository() SettlementRepository

	// IdempotencyKeys returns the idempotency token store bound to the
	// current transaction.
	IdempotencyKeys() IdempotencyKeys
}
