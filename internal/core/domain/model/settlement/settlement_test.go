package settlement_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateFixture(t *testing.T) settlement.RateSnapshot {
	t.Helper()
	rate, err := settlement.NewRateSnapshot(100, 70, 30, nil, settlement.SourceApplicationSnapshot)
	require.NoError(t, err)
	return rate
}

func resultFixture() settlement.Result {
	return settlement.Result{
		TotalBillableCount:   15,
		DeliveryReturnAmount: 120000,
		EtcAmount:            6000,
		ExtraCostsTotal:      3000,
		SupplyAmount:         129000,
		VATAmount:            12900,
		TotalAmount:          141900,
		DepositAmount:        28380,
		BalanceAmount:        113520,
	}
}

func settlementFixture(t *testing.T) *settlement.Settlement {
	t.Helper()
	s, err := settlement.NewSettlement(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		rateFixture(t), resultFixture(), 14190,
	)
	require.NoError(t, err)
	return s
}

func paidSettlementFixture(t *testing.T) *settlement.Settlement {
	t.Helper()
	s := settlementFixture(t)
	now := time.Now().UTC()
	require.NoError(t, s.Confirm(now))
	require.NoError(t, s.MarkPayable())
	require.NoError(t, s.MarkPaid(now))
	return s
}

func TestNewSettlement(t *testing.T) {
	t.Run("should create pending settlement with derived net amount", func(t *testing.T) {
		s := settlementFixture(t)

		require.NoError(t, s.Validate())
		assert.Equal(t, settlement.Pending, s.Status())
		assert.Equal(t, int64(14190), s.PlatformFee())
		assert.Equal(t, int64(141900-14190), s.NetAmount())
		assert.Zero(t, s.DeductionTotal())
		assert.Empty(t, s.Entries())
		assert.Nil(t, s.ConfirmedAt())
		assert.Nil(t, s.PaidAt())
	})

	t.Run("should reject platform fee outside the total", func(t *testing.T) {
		_, err := settlement.NewSettlement(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			rateFixture(t), resultFixture(), resultFixture().TotalAmount+1,
		)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = settlement.NewSettlement(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			rateFixture(t), resultFixture(), -1,
		)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject inconsistent results", func(t *testing.T) {
		broken := resultFixture()
		broken.TotalAmount++

		_, err := settlement.NewSettlement(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			rateFixture(t), broken, 0,
		)
		require.Error(t, err)
	})

	t.Run("should reject zero-value settlement", func(t *testing.T) {
		var s settlement.Settlement

		require.ErrorIs(t, s.Validate(), settlement.ErrSettlementIsNotConstructed)
	})
}

func TestSettlementApplyDeduction(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should move totals by exactly the entry amount", func(t *testing.T) {
		s := settlementFixture(t)
		netBefore := s.NetAmount()

		entry, applied, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 5000, "damaged parcel", now,
		)

		require.NoError(t, err)
		assert.True(t, applied)
		require.NotNil(t, entry)
		assert.True(t, entry.Active())
		assert.Equal(t, int64(5000), entry.Amount())
		assert.Equal(t, int64(5000), s.DeductionTotal())
		assert.Equal(t, netBefore-5000, s.NetAmount())
		assert.Len(t, s.Entries(), 1)
	})

	t.Run("should answer existing entry on duplicate source tuple", func(t *testing.T) {
		s := settlementFixture(t)
		first, applied, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 5000, "damaged parcel", now,
		)
		require.NoError(t, err)
		require.True(t, applied)

		second, applied, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 9000, "retried with other amount", now,
		)

		require.NoError(t, err)
		assert.False(t, applied)
		assert.Same(t, first, second)
		assert.Equal(t, int64(5000), s.DeductionTotal())
		assert.Len(t, s.Entries(), 1)
	})

	t.Run("should accumulate entries from distinct sources", func(t *testing.T) {
		s := settlementFixture(t)

		_, _, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 5000, "damaged parcel", now,
		)
		require.NoError(t, err)
		_, applied, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceAdminAdjustment, "ticket-12", 1000, "manual correction", now,
		)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, int64(6000), s.DeductionTotal())
		assert.Len(t, s.Entries(), 2)
	})

	t.Run("should reject deductions on a paid settlement", func(t *testing.T) {
		s := paidSettlementFixture(t)

		_, _, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 5000, "too late", now,
		)

		require.ErrorIs(t, err, settlement.ErrSettlementAlreadyPaid)
	})

	t.Run("should reject invalid entry input without touching totals", func(t *testing.T) {
		s := settlementFixture(t)

		_, _, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 0, "zero amount", now,
		)

		require.Error(t, err)
		assert.Zero(t, s.DeductionTotal())
		assert.Empty(t, s.Entries())
	})
}

func TestSettlementReverseDeduction(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should restore totals to their pre-apply values", func(t *testing.T) {
		s := settlementFixture(t)
		netBefore := s.NetAmount()
		_, _, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 5000, "damaged parcel", now,
		)
		require.NoError(t, err)

		entry, err := s.ReverseDeduction(settlement.SourceIncident, "incident-7", now)

		require.NoError(t, err)
		assert.False(t, entry.Active())
		assert.NotNil(t, entry.ReversedAt())
		assert.Zero(t, s.DeductionTotal())
		assert.Equal(t, netBefore, s.NetAmount())
	})

	t.Run("should allow a fresh entry for the tuple after reversal", func(t *testing.T) {
		s := settlementFixture(t)
		_, _, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 5000, "damaged parcel", now,
		)
		require.NoError(t, err)
		_, err = s.ReverseDeduction(settlement.SourceIncident, "incident-7", now)
		require.NoError(t, err)

		_, applied, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 3000, "re-assessed damage", now,
		)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, int64(3000), s.DeductionTotal())
		assert.Len(t, s.Entries(), 2)
	})

	t.Run("should fail when no active entry exists for the tuple", func(t *testing.T) {
		s := settlementFixture(t)

		_, err := s.ReverseDeduction(settlement.SourceIncident, "incident-7", now)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject reversal on a paid settlement", func(t *testing.T) {
		s := settlementFixture(t)
		_, _, err := s.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceIncident, "incident-7", 5000, "damaged parcel", now,
		)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(now))
		require.NoError(t, s.MarkPayable())
		require.NoError(t, s.MarkPaid(now))

		_, err = s.ReverseDeduction(settlement.SourceIncident, "incident-7", now)

		require.ErrorIs(t, err, settlement.ErrSettlementAlreadyPaid)
	})
}

func TestSettlementLifecycle(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should walk pending to paid", func(t *testing.T) {
		s := settlementFixture(t)

		require.NoError(t, s.Confirm(now))
		assert.Equal(t, settlement.Confirmed, s.Status())
		require.NotNil(t, s.ConfirmedAt())

		require.NoError(t, s.MarkPayable())
		assert.Equal(t, settlement.Payable, s.Status())

		require.NoError(t, s.MarkPaid(now))
		assert.Equal(t, settlement.Paid, s.Status())
		require.NotNil(t, s.PaidAt())
	})

	t.Run("should hold and release through confirmation", func(t *testing.T) {
		s := settlementFixture(t)

		require.NoError(t, s.Hold())
		assert.Equal(t, settlement.OnHold, s.Status())

		require.NoError(t, s.Confirm(now))
		assert.Equal(t, settlement.Confirmed, s.Status())
	})

	t.Run("should reject skipping the payable release", func(t *testing.T) {
		s := settlementFixture(t)

		require.Error(t, s.MarkPaid(now))
		require.Error(t, s.MarkPayable())
	})

	t.Run("should reject holding a paid settlement", func(t *testing.T) {
		s := paidSettlementFixture(t)

		require.Error(t, s.Hold())
	})

	t.Run("should reject confirming twice", func(t *testing.T) {
		s := settlementFixture(t)
		require.NoError(t, s.Confirm(now))

		require.Error(t, s.Confirm(now))
	})
}

func TestRestoreSettlement(t *testing.T) {
	t.Run("should rehydrate totals, status and ledger", func(t *testing.T) {
		id := kernel.NewUUID()
		settlementID := kernel.NewUUID()
		now := time.Now().UTC()
		entry, err := settlement.RestoreLedgerEntry(
			id, settlementID, settlement.SourceIncident, "incident-7", 5000, "damaged parcel", now, nil,
		)
		require.NoError(t, err)

		s, err := settlement.RestoreSettlement(
			settlementID, kernel.NewUUID(), kernel.NewUUID(),
			rateFixture(t), resultFixture(),
			14190, 5000, 141900-14190-5000,
			settlement.Confirmed,
			[]*settlement.LedgerEntry{entry},
			&now, nil,
		)

		require.NoError(t, err)
		assert.Equal(t, settlement.Confirmed, s.Status())
		assert.Equal(t, int64(5000), s.DeductionTotal())
		assert.Equal(t, int64(141900-14190-5000), s.NetAmount())
		require.Len(t, s.Entries(), 1)
		assert.NotNil(t, s.ActiveEntry(settlement.SourceIncident, "incident-7"))
	})

	t.Run("should reject an invalid stored status", func(t *testing.T) {
		_, err := settlement.RestoreSettlement(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			rateFixture(t), resultFixture(),
			0, 0, resultFixture().TotalAmount,
			settlement.StatusUnknown, nil, nil, nil,
		)

		require.Error(t, err)
	})
}
