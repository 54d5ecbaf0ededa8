// Package order provides domain entities and business logic for order lifecycle
// management in the marketplace. It implements the Order aggregate root together
// with the status state machine that gates every lifecycle operation.
//
// The package includes:
//   - Order: the aggregate root owning requester, matched helper, closing report,
//     and the frozen order-level commission rate
//   - Status: a tagged value object over the closed status set, with the directed
//     transition graph, legacy-alias normalization, and an explicit unknown case
//   - ClosingData: the helper-submitted quantities and extra costs that seed
//     settlement computation
//
// Key business rules:
//   - A transition to the same status is always a valid no-op
//   - closed and cancelled are terminal; nothing leaves them
//   - Admin rollback uses a hand-curated recovery map that is deliberately
//     narrower than the forward transition graph
//   - A helper can be selected exactly once; later attempts are a retryable conflict
//   - A closing report is immutable after submission except through explicit
//     admin correction
package order
