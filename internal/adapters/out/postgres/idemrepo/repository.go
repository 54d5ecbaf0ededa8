// Package idemrepo stores caller-supplied idempotency tokens. A token row is
// inserted once per (actor, operation, key); replays collide on the primary
// key and report the duplicate instead of erroring.
package idemrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdempotencyKeyDTO represents one claimed token. The composite primary key
// is the deduplication scope.
type IdempotencyKeyDTO struct {
	Actor     string `gorm:"primaryKey"`
	Operation string `gorm:"primaryKey"`
	Key       string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// TableName specifies the database table name for idempotency tokens.
func (IdempotencyKeyDTO) TableName() string {
	return "idempotency_keys"
}

// GormIdempotencyKeys implements ports.IdempotencyKeys using GORM.
type GormIdempotencyKeys struct {
	db *gorm.DB
}

// NewGormIdempotencyKeys creates a new GORM idempotency token store.
func NewGormIdempotencyKeys(db *gorm.DB) *GormIdempotencyKeys {
	return &GormIdempotencyKeys{db: db}
}

// Claim inserts the token and reports whether this call claimed it first.
// The insert runs inside the caller's transaction, so a rolled-back operation
// releases its token and a retry may claim it again. Two concurrent claims of
// the same token serialize on the primary key: the loser's DO NOTHING insert
// touches zero rows only after the winner commits.
func (r *GormIdempotencyKeys) Claim(ctx context.Context, actor, operation, key string) (bool, error) {
	dto := IdempotencyKeyDTO{
		Actor:     actor,
		Operation: operation,
		Key:       key,
		CreatedAt: time.Now().UTC(),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
