package services

import (
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"
)

// vatPermille is the VAT rate applied to the supply amount.
const vatPermille = 100

// PayoutResult extends a settlement Result with the helper-side figures:
// the platform's commission and the helper's final payout.
type PayoutResult struct {
	settlement.Result

	PlatformFee  int64
	DriverPayout int64
}

// SettlementCalculator turns a closing report into settlement amounts.
// It is the single source of truth for settlement math: call sites that
// already hold a persisted Result must prefer that snapshot over calling
// Compute again, so the deposit rate and rounding in force at computation
// time stay authoritative for that order.
//
// All arithmetic is integer minor-unit math. Percentages are applied in
// permille with round-half-up, except the deposit, which floors in the
// requester's favor.
type SettlementCalculator struct{}

// NewSettlementCalculator creates a new SettlementCalculator instance.
func NewSettlementCalculator() SettlementCalculator {
	return SettlementCalculator{}
}

// Compute derives the full settlement Result from a closing report:
//
//	supply  = (delivered + returned) × unitPrice + etc × etcPricePerUnit + Σ extras
//	vat     = round-half-up(supply × 10%)
//	total   = supply + vat
//	deposit = floor(total × depositPermille / 1000)
//	balance = total − deposit
//
// The deposit rate is configuration, not a constant, carried as an integer
// permille in [0, 1000] like the commission rates. Integer arithmetic keeps
// the floor exact: 29% of 100 is 29 on every client computing the same
// formula, with no float product drifting a minor unit below the boundary.
func (c SettlementCalculator) Compute(closing order.ClosingData, depositPermille int) (settlement.Result, error) {
	if err := closing.Validate(); err != nil {
		return settlement.Result{}, err
	}
	if depositPermille < 0 || depositPermille > 1000 {
		return settlement.Result{}, errs.NewValueIsOutOfRangeError("deposit permille", depositPermille, 0, 1000)
	}

	deliveryReturn := int64(closing.DeliveredCount()+closing.ReturnedCount()) * closing.UnitPrice()
	etc := int64(closing.EtcCount()) * closing.EtcPricePerUnit()
	extras := closing.ExtraCostsTotal()

	supply := deliveryReturn + etc + extras
	vat := roundHalfUpPermille(supply, vatPermille)
	total := supply + vat
	deposit := total * int64(depositPermille) / 1000

	return settlement.Result{
		TotalBillableCount:   closing.DeliveredCount() + closing.ReturnedCount() + closing.EtcCount(),
		DeliveryReturnAmount: deliveryReturn,
		EtcAmount:            etc,
		ExtraCostsTotal:      extras,
		SupplyAmount:         supply,
		VATAmount:            vat,
		TotalAmount:          total,
		DepositAmount:        deposit,
		BalanceAmount:        total - deposit,
	}, nil
}

// ComputePayout derives the helper-side figures on top of Compute:
//
//	platformFee  = round-half-up(total × totalRate)
//	driverPayout = max(0, total − platformFee − damageDeduction)
//
// The payout is clamped at zero: deductions can never produce a negative
// payout, however large the damage.
func (c SettlementCalculator) ComputePayout(
	closing order.ClosingData,
	rate settlement.RateSnapshot,
	damageDeduction int64,
	depositPermille int,
) (PayoutResult, error) {
	if err := rate.Validate(); err != nil {
		return PayoutResult{}, err
	}
	if damageDeduction < 0 {
		return PayoutResult{}, errs.NewValueIsInvalidErrorWithCause("damage deduction",
			fmt.Errorf("%d is negative", damageDeduction))
	}

	result, err := c.Compute(closing, depositPermille)
	if err != nil {
		return PayoutResult{}, err
	}

	fee := roundHalfUpPermille(result.TotalAmount, rate.TotalPermille())
	payout := result.TotalAmount - fee - damageDeduction
	if payout < 0 {
		payout = 0
	}

	return PayoutResult{
		Result:       result,
		PlatformFee:  fee,
		DriverPayout: payout,
	}, nil
}

// roundHalfUpPermille applies a permille rate to a non-negative minor-unit
// amount with round-half-up.
func roundHalfUpPermille(amount int64, permille int) int64 {
	return (amount*int64(permille) + 500) / 1000
}
