package model

import (
	"time"

	"github.com/google/uuid"
)

// Tone is a product variant (a shade of the parent product) with its own
// stock counter, independent of the parent's Quantity field.
type Tone struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_product_tone;not null"`
	Name      string    `gorm:"uniqueIndex:idx_product_tone;not null"`
	Quantity  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// StockRef identifies inventory at one of two granularities: a bare product
// or a (product, tone) pair. ToneID == nil means the product-level counter.
type StockRef struct {
	ProductID uuid.UUID
	ToneID    *uuid.UUID
}

func (r StockRef) String() string {
	if r.ToneID != nil {
		return r.ProductID.String() + "/" + r.ToneID.String()
	}
	return r.ProductID.String()
}
