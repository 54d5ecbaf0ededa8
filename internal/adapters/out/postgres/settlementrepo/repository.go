package settlementrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSettlementRepository implements SettlementRepository using GORM.
type GormSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSettlementRepository creates a new GORM settlement repository.
func NewGormSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormSettlementRepository {
	return &GormSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new settlement to the database. The unique index on order_id
// rejects a duplicate insert even when the existence check raced another
// submission of the same closing report.
func (r *GormSettlementRepository) Add(ctx context.Context, aggregate *settlement.Settlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the settlement's lifecycle fields. The running ledger totals
// are deliberately excluded: they move only through AppendEntry and
// MarkEntryReversed, by delta, so a stale aggregate held by a concurrent
// operation cannot clobber another source's deduction.
func (r *GormSettlementRepository) Update(ctx context.Context, aggregate *settlement.Settlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&SettlementDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"status":       aggregate.Status().String(),
			"confirmed_at": aggregate.ConfirmedAt(),
			"paid_at":      aggregate.PaidAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a settlement with its ledger entries by ID.
func (r *GormSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.Settlement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("settlement", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetByOrder retrieves the settlement owned by an order.
func (r *GormSettlementRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*settlement.Settlement, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto SettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("settlement by order", orderID.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetAllInStatus retrieves all settlements in the given lifecycle status.
func (r *GormSettlementRepository) GetAllInStatus(
	ctx context.Context,
	status settlement.Status,
) ([]*settlement.Settlement, error) {
	var dtos []SettlementDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "status = ?", status.String()).Error; err != nil {
		return nil, err
	}

	settlements := make([]*settlement.Settlement, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := r.load(ctx, dto)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, aggregate)
	}

	return settlements, nil
}

// AppendEntry persists a freshly applied ledger entry and moves the owning
// settlement's totals by the entry amount within the same transaction.
func (r *GormSettlementRepository) AppendEntry(ctx context.Context, entry *settlement.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return r.applyDelta(ctx, entry.SettlementID(), entry.Amount())
}

// MarkEntryReversed stamps the entry's reversal time and applies the inverse
// delta to the owning settlement's totals.
func (r *GormSettlementRepository) MarkEntryReversed(
	ctx context.Context,
	entry *settlement.LedgerEntry,
	at time.Time,
) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&LedgerEntryDTO{}).
		Where("id = ? AND reversed_at IS NULL", entry.ID().Bytes()).
		Update("reversed_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return r.applyDelta(ctx, entry.SettlementID(), -entry.Amount())
}

// applyDelta moves deduction_total and net_amount by amount without reading
// them first. SET x = x + ? keeps concurrent deductions against other
// sources additive instead of last-writer-wins.
func (r *GormSettlementRepository) applyDelta(ctx context.Context, settlementID kernel.UUID, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&SettlementDTO{}).
		Where("id = ?", settlementID.Bytes()).
		Updates(map[string]any{
			"deduction_total": gorm.Expr("deduction_total + ?", amount),
			"net_amount":      gorm.Expr("net_amount - ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// load attaches the ledger rows to a settlement DTO and rehydrates the
// aggregate.
func (r *GormSettlementRepository) load(ctx context.Context, dto SettlementDTO) (*settlement.Settlement, error) {
	var entryDTOs []LedgerEntryDTO
	err := r.db.WithContext(ctx).
		Order("applied_at").
		Find(&entryDTOs, "settlement_id = ?", dto.ID).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, entryDTOs)
}
