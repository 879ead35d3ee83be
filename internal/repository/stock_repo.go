package repository

import (
	"context"
	"errors"

	"glowpos/internal/model"

	"gorm.io/gorm"
)

// StockRepository is the stock ledger: atomic read-modify-write over the
// per-item quantity counters. A ref addresses either a product row or a
// tone row — tone refs never touch the parent product's counter.
type StockRepository interface {
	// Quantity returns the current counter for ref.
	Quantity(ctx context.Context, ref model.StockRef) (int, error)
	// Adjust applies quantity += delta. The non-negativity check and the
	// update are one statement, so concurrent transactions on the same ref
	// serialize on the row lock and cannot lose updates.
	Adjust(ctx context.Context, ref model.StockRef, delta int) error
}

type stockRepo struct{ db *gorm.DB }

// NewStockRepository returns a ledger outside any transaction scope, for
// point reads. Writes should go through TxScope.
func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Quantity(ctx context.Context, ref model.StockRef) (int, error) {
	var qty int
	var err error
	if ref.ToneID != nil {
		err = r.db.WithContext(ctx).Model(&model.Tone{}).
			Where("id = ? AND product_id = ?", *ref.ToneID, ref.ProductID).
			Select("quantity").Take(&qty).Error
	} else {
		err = r.db.WithContext(ctx).Model(&model.Product{}).
			Where("id = ?", ref.ProductID).
			Select("quantity").Take(&qty).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &NotFoundError{Entity: refEntity(ref), Ref: ref.String()}
	}
	return qty, err
}

func (r *stockRepo) Adjust(ctx context.Context, ref model.StockRef, delta int) error {
	var res *gorm.DB
	if ref.ToneID != nil {
		res = r.db.WithContext(ctx).Model(&model.Tone{}).
			Where("id = ? AND product_id = ? AND quantity + ? >= 0", *ref.ToneID, ref.ProductID, delta).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	} else {
		res = r.db.WithContext(ctx).Model(&model.Product{}).
			Where("id = ? AND quantity + ? >= 0", ref.ProductID, delta).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Guard rejected the update: either the row is missing or the
		// counter would go negative. Quantity disambiguates.
		avail, err := r.Quantity(ctx, ref)
		if err != nil {
			return err
		}
		return &InsufficientStockError{Ref: ref, Available: avail, Requested: -delta}
	}
	return nil
}

func refEntity(ref model.StockRef) string {
	if ref.ToneID != nil {
		return "tone"
	}
	return "product"
}
