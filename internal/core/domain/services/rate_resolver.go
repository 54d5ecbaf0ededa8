package services

import (
	"marketplace/internal/core/domain/model/application"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
)

// RateResolver resolves the commission rate for one order+helper pairing with
// a deterministic fallback cascade, in strict priority order:
//
//  1. a rate already frozen on the helper's application record for this order
//  2. the rate frozen on the order itself at creation time
//  3. the live effective rate supplied by the policy source
//
// Whichever tier wins, the result is retagged with that tier's source so the
// origin of every frozen rate stays auditable. The resolver never consults
// current policy for tiers 1 and 2, which is what keeps already-matched
// orders immune to policy changes.
type RateResolver struct{}

// NewRateResolver creates a new RateResolver instance.
func NewRateResolver() RateResolver {
	return RateResolver{}
}

// Resolve picks the rate for the given application and order. The effective
// rate is the caller's policy lookup for the helper, resolved once per
// operation; it is used only when neither record carries a frozen rate.
func (r RateResolver) Resolve(
	app *application.Application,
	ord *order.Order,
	effective settlement.RateSnapshot,
) (settlement.RateSnapshot, error) {
	if err := app.Validate(); err != nil {
		return settlement.RateSnapshot{}, err
	}
	if err := ord.Validate(); err != nil {
		return settlement.RateSnapshot{}, err
	}

	if rate := app.Rate(); rate != nil {
		return rate.WithSource(settlement.SourceApplicationSnapshot)
	}
	if rate := ord.Rate(); rate != nil {
		return rate.WithSource(settlement.SourceOrderSnapshot)
	}
	return effective.WithSource(settlement.SourceEffectiveLookup)
}
