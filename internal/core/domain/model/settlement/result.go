package settlement

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Result is the derived financial outcome of one closing report. It is never
// authoritative on its own: every field is a pure function of the closing
// data and the deposit rate in force at computation time, and consumers that
// hold a persisted Result must prefer it over recomputation so historical
// orders keep the rounding and deposit rate they were computed with.
//
// All amounts are currency minor units.
type Result struct {
	TotalBillableCount   int
	DeliveryReturnAmount int64
	EtcAmount            int64
	ExtraCostsTotal      int64
	SupplyAmount         int64
	VATAmount            int64
	TotalAmount          int64
	DepositAmount        int64
	BalanceAmount        int64
}

// Validate checks the cross-field invariants that must hold for any Result,
// whatever deposit rate produced it.
func (r Result) Validate() error {
	if sum := r.DeliveryReturnAmount + r.EtcAmount + r.ExtraCostsTotal; sum != r.SupplyAmount {
		return errs.NewValueIsInvalidErrorWithCause("supply amount",
			fmt.Errorf("%d does not equal component sum %d", r.SupplyAmount, sum))
	}
	if r.SupplyAmount+r.VATAmount != r.TotalAmount {
		return errs.NewValueIsInvalidErrorWithCause("total amount",
			fmt.Errorf("%d does not equal supply %d + VAT %d", r.TotalAmount, r.SupplyAmount, r.VATAmount))
	}
	if r.TotalAmount-r.DepositAmount != r.BalanceAmount {
		return errs.NewValueIsInvalidErrorWithCause("balance amount",
			fmt.Errorf("%d does not equal total %d - deposit %d", r.BalanceAmount, r.TotalAmount, r.DepositAmount))
	}
	if r.DepositAmount < 0 || r.DepositAmount > r.TotalAmount {
		return errs.NewValueIsOutOfRangeError("deposit amount", r.DepositAmount, 0, r.TotalAmount)
	}
	return nil
}
