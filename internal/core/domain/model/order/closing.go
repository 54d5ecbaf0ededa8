package order

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrClosingDataIsNotConstructed = errors.New(
		"ClosingData must be created via NewClosingData constructor",
	)
	ErrExtraCostLabelIsRequired = errors.New("extra cost label is required")
)

// ExtraCost is one labeled additional charge reported with a closing report,
// for example tolls or parking. Amounts are currency minor units.
type ExtraCost struct {
	label  string
	amount int64
}

// NewExtraCost creates a validated extra cost line. The label is required and
// the amount must be non-negative.
func NewExtraCost(label string, amount int64) (ExtraCost, error) {
	if label == "" {
		return ExtraCost{}, ErrExtraCostLabelIsRequired
	}
	if amount < 0 {
		return ExtraCost{}, errs.NewValueIsInvalidErrorWithCause("extra cost amount",
			fmt.Errorf("%d is negative", amount))
	}
	return ExtraCost{label: label, amount: amount}, nil
}

// Label returns the human-readable description of the charge.
func (c ExtraCost) Label() string {
	return c.label
}

// Amount returns the charge in currency minor units.
func (c ExtraCost) Amount() int64 {
	return c.amount
}

// ClosingData is the helper-submitted closing report: delivered/returned/etc
// counts, the unit prices in force for the order, and any extra costs, in the
// order they were reported. It is produced once per order and immutable after
// creation; corrections go through Order.CorrectClosing.
//
// All prices are currency minor units; no fractional currency exists anywhere
// in settlement math.
type ClosingData struct {
	deliveredCount  int
	returnedCount   int
	etcCount        int
	unitPrice       int64
	etcPricePerUnit int64
	extraCosts      []ExtraCost

	guard guard.ConstructorGuard
}

// NewClosingData creates a validated closing report. Counts and prices must
// be non-negative.
func NewClosingData(
	deliveredCount, returnedCount, etcCount int,
	unitPrice, etcPricePerUnit int64,
	extraCosts []ExtraCost,
) (ClosingData, error) {
	counts := map[string]int{
		"delivered count": deliveredCount,
		"returned count":  returnedCount,
		"etc count":       etcCount,
	}
	for name, count := range counts {
		if count < 0 {
			return ClosingData{}, errs.NewValueIsInvalidErrorWithCause(name,
				fmt.Errorf("%d is negative", count))
		}
	}
	if unitPrice < 0 {
		return ClosingData{}, errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%d is negative", unitPrice))
	}
	if etcPricePerUnit < 0 {
		return ClosingData{}, errs.NewValueIsInvalidErrorWithCause("etc price per unit",
			fmt.Errorf("%d is negative", etcPricePerUnit))
	}

	// Copy to keep the report immutable even if the caller mutates its slice.
	costs := make([]ExtraCost, len(extraCosts))
	copy(costs, extraCosts)

	return ClosingData{
		deliveredCount:  deliveredCount,
		returnedCount:   returnedCount,
		etcCount:        etcCount,
		unitPrice:       unitPrice,
		etcPricePerUnit: etcPricePerUnit,
		extraCosts:      costs,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the report was built via NewClosingData.
func (c ClosingData) Validate() error {
	return c.guard.Validate(ErrClosingDataIsNotConstructed)
}

// DeliveredCount returns the number of delivered units.
func (c ClosingData) DeliveredCount() int {
	return c.deliveredCount
}

// ReturnedCount returns the number of returned units.
func (c ClosingData) ReturnedCount() int {
	return c.returnedCount
}

// EtcCount returns the number of miscellaneous billable units.
func (c ClosingData) EtcCount() int {
	return c.etcCount
}

// UnitPrice returns the delivered/returned unit price in minor units.
func (c ClosingData) UnitPrice() int64 {
	return c.unitPrice
}

// EtcPricePerUnit returns the miscellaneous unit price in minor units.
func (c ClosingData) EtcPricePerUnit() int64 {
	return c.etcPricePerUnit
}

// ExtraCosts returns a copy of the extra cost lines in reported order.
func (c ClosingData) ExtraCosts() []ExtraCost {
	costs := make([]ExtraCost, len(c.extraCosts))
	copy(costs, c.extraCosts)
	return costs
}

// ExtraCostsTotal sums all extra cost amounts.
func (c ClosingData) ExtraCostsTotal() int64 {
	var total int64
	for _, cost := range c.extraCosts {
		total += cost.amount
	}
	return total
}
