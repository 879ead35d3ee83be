package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item. Quantity is the stock counter for
// simple products; when the product carries tones, each Tone row holds its
// own counter and the product-level Quantity is left at zero.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code          string    `gorm:"uniqueIndex;not null"` // client-assigned SKU
	Name          string    `gorm:"index;not null"`
	Brand         *string
	Description   *string
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	SubcategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity      int             `gorm:"not null;default:0"`
	MinStock      int             `gorm:"not null;default:5"`
	ImageURL      *string
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
	Tones    []Tone    `gorm:"foreignKey:ProductID"`
}
