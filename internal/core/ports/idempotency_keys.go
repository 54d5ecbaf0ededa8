package ports

import "context"

// IdempotencyKeys deduplicates caller-supplied idempotency tokens for
// mutating operations. The core treats the key purely as a deduplication
// token scoped by (actor, operation, key); generating it is the caller's
// responsibility.
type IdempotencyKeys interface {
	// Claim records the token and reports whether this call claimed it first.
	// A false result means the operation already ran and the caller should
	// answer with the previously-produced outcome instead of re-executing.
	// The claim participates in the surrounding transaction, so a rolled-back
	// operation releases its token.
	Claim(ctx context.Context, actor, operation, key string) (bool, error)
}
