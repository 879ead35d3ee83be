package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is the header row of one supplier purchase.
type Purchase struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	User     *User          `gorm:"foreignKey:UserID"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// PurchaseItem is one line of a purchase. Purchases only increase stock,
// so there is no upper bound on Quantity beyond it being positive.
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	ToneID     *uuid.UUID      `gorm:"type:uuid"`
	Quantity   int             `gorm:"not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Tone    *Tone    `gorm:"foreignKey:ToneID"`
}

// Ref returns the stock reference this line was applied against.
func (i PurchaseItem) Ref() StockRef { return StockRef{ProductID: i.ProductID, ToneID: i.ToneID} }
