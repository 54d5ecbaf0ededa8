// Package settlement provides the financial side of the order lifecycle: the
// Settlement aggregate that owns the computed amounts for one order and one
// helper, the commission rate frozen at match time, and the append-only
// deduction ledger applied to the settlement's net amount.
//
// Key business rules:
//   - A settlement is created exactly once per order
//   - The rate snapshot is frozen when the helper is selected and is never
//     recomputed from current policy; changing global commission policy must
//     never alter the economics of an already-matched order
//   - At most one active ledger entry exists per (settlement, source type,
//     source id), which is what makes deduction application idempotent
//   - Deduction totals and the net amount move by delta only, so concurrent
//     unrelated corrections are never clobbered
//   - Nothing in the ledger can be reversed once the settlement is paid
package settlement
