package ports

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
)

// PolicyProvider is the configuration source for the global deposit rate and
// the commission policy. Implementations expose an immutable snapshot of the
// policy: handlers resolve it once per operation and never re-read it
// mid-transaction. Historical correctness relies on the RateSnapshot
// mechanism, not on policy immutability.
type PolicyProvider interface {
	// DepositPermille returns the configured deposit rate as an integer
	// permille in [0, 1000].
	DepositPermille() int

	// GlobalRate returns the global commission policy, used to freeze the
	// order-level snapshot at creation time.
	GlobalRate() settlement.RateSnapshot

	// EffectiveRate resolves the helper's current effective commission rate
	// with priority helper override -> team override -> global policy ->
	// hard-coded default.
	EffectiveRate(helperID kernel.UUID, teamLeaderID *kernel.UUID) settlement.RateSnapshot
}
