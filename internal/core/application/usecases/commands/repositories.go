// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, one storage transaction
// per operation, and event publication only after a successful commit.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest combination it actually needs.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ApplicationRepoFactory provides access to the application repository
	// within a transaction.
	ApplicationRepoFactory interface {
		ApplicationRepository() ports.ApplicationRepository
	}

	// SettlementRepoFactory provides access to the settlement repository
	// within a transaction.
	SettlementRepoFactory interface {
		SettlementRepository() ports.SettlementRepository
	}

	// IdempotencyFactory provides access to the idempotency token store
	// within a transaction.
	IdempotencyFactory interface {
		IdempotencyKeys() ports.IdempotencyKeys
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// MatchUoW manages transactions for helper selection, which updates the
	// order and the winning application together.
	MatchUoW interface {
		TxManager
		OrderRepoFactory
		ApplicationRepoFactory
	}

	// MatchUoWFactory creates new match unit of work instances.
	MatchUoWFactory interface {
		Create() MatchUoW
	}

	// ClosingUoW manages transactions for closing-report submission, which
	// reads the selected application and creates the settlement alongside the
	// order transition.
	ClosingUoW interface {
		TxManager
		OrderRepoFactory
		ApplicationRepoFactory
		SettlementRepoFactory
	}

	// ClosingUoWFactory creates new closing unit of work instances.
	ClosingUoWFactory interface {
		Create() ClosingUoW
	}

	// PaymentUoW manages transactions for confirm/pay/dispute operations,
	// which move order and settlement together and deduplicate on
	// caller-supplied idempotency keys.
	PaymentUoW interface {
		TxManager
		OrderRepoFactory
		SettlementRepoFactory
		IdempotencyFactory
	}

	// PaymentUoWFactory creates new payment unit of work instances.
	PaymentUoWFactory interface {
		Create() PaymentUoW
	}

	// LedgerUoW manages transactions for deduction ledger operations.
	LedgerUoW interface {
		TxManager
		SettlementRepoFactory
	}

	// LedgerUoWFactory creates new ledger unit of work instances.
	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// OrderSettlementUoW manages transactions that move an order and its
	// settlement together without an idempotency key: generic transitions
	// that touch payout holds, and the payable sweep.
	OrderSettlementUoW interface {
		TxManager
		OrderRepoFactory
		SettlementRepoFactory
	}

	// OrderSettlementUoWFactory creates new order+settlement unit of work
	// instances.
	OrderSettlementUoWFactory interface {
		Create() OrderSettlementUoW
	}
)
