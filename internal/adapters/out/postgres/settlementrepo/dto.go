// Package settlementrepo provides data transfer objects and mapping
// functions for settlement persistence, including the deduction ledger.
package settlementrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"

	"github.com/google/uuid"
)

// SettlementDTO represents the database structure for persisting settlement
// aggregates. The unique index on order_id enforces at most one settlement
// per order at the storage level, backstopping the existence check in the
// closing submission handler against concurrent writers.
//
// deduction_total and net_amount are running totals moved only by deltas in
// AppendEntry and MarkEntryReversed; Update never touches them.
type SettlementDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	HelperID uuid.UUID `gorm:"type:uuid;index"`

	RateTotalPermille      int
	RatePlatformPermille   int
	RateTeamLeaderPermille int
	RateTeamLeaderID       *uuid.UUID `gorm:"type:uuid"`
	RateSource             string

	TotalBillableCount   int
	DeliveryReturnAmount int64
	EtcAmount            int64
	ExtraCostsTotal      int64
	SupplyAmount         int64
	VATAmount            int64
	TotalAmount          int64
	DepositAmount        int64
	BalanceAmount        int64

	PlatformFee    int64
	DeductionTotal int64
	NetAmount      int64

	Status      string `gorm:"index"`
	ConfirmedAt *time.Time
	PaidAt      *time.Time
}

// TableName specifies the database table name for settlement entities.
func (SettlementDTO) TableName() string {
	return "settlements"
}

// LedgerEntryDTO represents one deduction ledger row. The composite index
// supports the active-entry lookup by source tuple; the at-most-one-active
// rule itself lives in the aggregate, which scans entries inside the
// transaction that appends.
type LedgerEntryDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SettlementID uuid.UUID `gorm:"type:uuid;index:idx_ledger_source"`
	SourceType   string    `gorm:"index:idx_ledger_source"`
	SourceID     string    `gorm:"index:idx_ledger_source"`
	Amount       int64
	Reason       string
	AppliedAt    time.Time
	ReversedAt   *time.Time
}

// TableName specifies the database table name for ledger entries.
func (LedgerEntryDTO) TableName() string {
	return "settlement_ledger_entries"
}

// fromDomain converts a settlement aggregate to its database representation.
func fromDomain(aggregate *settlement.Settlement) SettlementDTO {
	rate := aggregate.Rate()
	result := aggregate.Result()

	dto := SettlementDTO{
		ID:       aggregate.ID().Bytes(),
		OrderID:  aggregate.OrderID().Bytes(),
		HelperID: aggregate.HelperID().Bytes(),

		RateTotalPermille:      rate.TotalPermille(),
		RatePlatformPermille:   rate.PlatformPermille(),
		RateTeamLeaderPermille: rate.TeamLeaderPermille(),
		RateSource:             rate.Source().String(),

		TotalBillableCount:   result.TotalBillableCount,
		DeliveryReturnAmount: result.DeliveryReturnAmount,
		EtcAmount:            result.EtcAmount,
		ExtraCostsTotal:      result.ExtraCostsTotal,
		SupplyAmount:         result.SupplyAmount,
		VATAmount:            result.VATAmount,
		TotalAmount:          result.TotalAmount,
		DepositAmount:        result.DepositAmount,
		BalanceAmount:        result.BalanceAmount,

		PlatformFee:    aggregate.PlatformFee(),
		DeductionTotal: aggregate.DeductionTotal(),
		NetAmount:      aggregate.NetAmount(),

		Status:      aggregate.Status().String(),
		ConfirmedAt: aggregate.ConfirmedAt(),
		PaidAt:      aggregate.PaidAt(),
	}

	if leaderID := rate.TeamLeader(); leaderID != nil {
		raw := leaderID.Bytes()
		dto.RateTeamLeaderID = &raw
	}

	return dto
}

// entryFromDomain converts a ledger entry to its database representation.
func entryFromDomain(entry *settlement.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:           entry.ID().Bytes(),
		SettlementID: entry.SettlementID().Bytes(),
		SourceType:   entry.SourceType().String(),
		SourceID:     entry.SourceID(),
		Amount:       entry.Amount(),
		Reason:       entry.Reason(),
		AppliedAt:    entry.AppliedAt(),
		ReversedAt:   entry.ReversedAt(),
	}
}

// toDomain converts a settlement DTO and its ledger rows to an aggregate
// using RestoreSettlement.
func toDomain(dto SettlementDTO, entryDTOs []LedgerEntryDTO) (*settlement.Settlement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	helperID, err := kernel.UUIDFromBytes(dto.HelperID[:])
	if err != nil {
		return nil, err
	}

	rate, err := rateFromDTO(dto)
	if err != nil {
		return nil, err
	}
	status, err := settlement.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	entries := make([]*settlement.LedgerEntry, 0, len(entryDTOs))
	for _, entryDTO := range entryDTOs {
		entry, entryErr := entryToDomain(entryDTO)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	result := settlement.Result{
		TotalBillableCount:   dto.TotalBillableCount,
		DeliveryReturnAmount: dto.DeliveryReturnAmount,
		EtcAmount:            dto.EtcAmount,
		ExtraCostsTotal:      dto.ExtraCostsTotal,
		SupplyAmount:         dto.SupplyAmount,
		VATAmount:            dto.VATAmount,
		TotalAmount:          dto.TotalAmount,
		DepositAmount:        dto.DepositAmount,
		BalanceAmount:        dto.BalanceAmount,
	}

	return settlement.RestoreSettlement(
		id, orderID, helperID,
		rate, result,
		dto.PlatformFee, dto.DeductionTotal, dto.NetAmount,
		status, entries,
		dto.ConfirmedAt, dto.PaidAt,
	)
}

// entryToDomain converts a ledger row to its domain entry.
func entryToDomain(dto LedgerEntryDTO) (*settlement.LedgerEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	settlementID, err := kernel.UUIDFromBytes(dto.SettlementID[:])
	if err != nil {
		return nil, err
	}
	sourceType, err := settlement.SourceTypeFromString(dto.SourceType)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreLedgerEntry(
		id, settlementID, sourceType, dto.SourceID,
		dto.Amount, dto.Reason, dto.AppliedAt, dto.ReversedAt,
	)
}

func rateFromDTO(dto SettlementDTO) (settlement.RateSnapshot, error) {
	source, err := settlement.RateSourceFromString(dto.RateSource)
	if err != nil {
		return settlement.RateSnapshot{}, err
	}

	var teamLeaderID *kernel.UUID
	if dto.RateTeamLeaderID != nil {
		leaderID, leaderErr := kernel.UUIDFromBytes((*dto.RateTeamLeaderID)[:])
		if leaderErr != nil {
			return settlement.RateSnapshot{}, leaderErr
		}
		teamLeaderID = &leaderID
	}

	return settlement.NewRateSnapshot(
		dto.RateTotalPermille, dto.RatePlatformPermille, dto.RateTeamLeaderPermille,
		teamLeaderID, source,
	)
}
