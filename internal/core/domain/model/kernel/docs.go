// Package kernel provides core domain primitives shared across the marketplace
// domain model.
//
// The package includes:
//   - UUID: a value object for entity and aggregate identifiers with validation
//     and comparison capabilities
//
// Primitives in this package are immutable and thread-safe. They enforce their
// invariants through constructor functions rather than exported fields, so a
// zero value is always detectable as unconstructed.
package kernel
