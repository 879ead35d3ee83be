package repository

import (
	"context"

	"glowpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyRepository is the loyalty ledger: append-only point history plus
// the incremental customer balance. RecordEarned performs both writes in
// the caller's scope — it has no transaction boundary of its own.
type LoyaltyRepository interface {
	RecordEarned(ctx context.Context, customerID, saleID uuid.UUID, points int) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.LoyaltyEntry, error)
}

type loyaltyRepo struct{ db *gorm.DB }

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository { return &loyaltyRepo{db: db} }

func (r *loyaltyRepo) RecordEarned(ctx context.Context, customerID, saleID uuid.UUID, points int) error {
	// Balance first: RowsAffected == 0 proves the customer row is missing,
	// and the caller's scope then aborts before the history row lands.
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("accumulated_points", gorm.Expr("accumulated_points + ?", points))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "customer", Ref: customerID.String()}
	}

	entry := model.LoyaltyEntry{
		CustomerID: customerID,
		SaleID:     saleID,
		Points:     points,
		Type:       model.LoyaltyEarned,
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *loyaltyRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.LoyaltyEntry, error) {
	var entries []model.LoyaltyEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
