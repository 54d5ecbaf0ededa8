// Package services contains stateless domain services that implement business
// logic spanning multiple aggregates.
//
// The package includes:
//   - SettlementCalculator: the single source of truth for settlement math.
//     Every consumer that needs a supply/VAT/total/deposit figure calls this
//     calculator with the order's own closing data; no call site re-derives
//     the formulas independently.
//   - RateResolver: the deterministic fallback cascade that picks the
//     commission rate for an order+helper pairing and tags its origin.
//
// Services here are pure: no I/O, no hidden state, fully testable in isolation.
package services
