package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormScope implements TxScope over a GORM transaction. Repositories handed
// to fn are constructed over the transaction handle, so every operation
// inside fn is committed or rolled back as one unit.
type GormScope struct {
	db *gorm.DB
}

func NewGormScope(db *gorm.DB) *GormScope { return &GormScope{db: db} }

func (s *GormScope) Atomic(ctx context.Context, fn func(r Repos) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepos{tx: tx})
	})
	return classifyTxError(err)
}

// classifyTxError wraps PostgreSQL conflict conditions the caller may retry
// (serialization_failure, deadlock_detected, lock_not_available) into
// ErrStoreConflict. Every other error passes through unchanged.
func classifyTxError(err error) error {
	if err != nil && isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", ErrStoreConflict, err)
	}
	return err
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

// gormRepos binds every repository to the same live transaction.
type gormRepos struct {
	tx *gorm.DB
}

func (r *gormRepos) Stock() StockRepository             { return &stockRepo{db: r.tx} }
func (r *gormRepos) Sales() SaleRepository              { return &saleRepo{db: r.tx} }
func (r *gormRepos) Purchases() PurchaseRepository      { return &purchaseRepo{db: r.tx} }
func (r *gormRepos) Loyalty() LoyaltyRepository         { return &loyaltyRepo{db: r.tx} }
func (r *gormRepos) Movements() StockMovementRepository { return &movementRepo{db: r.tx} }

var _ TxScope = (*GormScope)(nil)
var _ Repos = (*gormRepos)(nil)
