package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the header row of one sale transaction.
// CustomerID is nil for anonymous sales — those never accrue points.
// EarnedPoints is written as 0 on insert and backfilled once, inside the
// same transaction, after every line has been processed.
type Sale struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EarnedPoints int             `gorm:"not null;default:0"`
	CreatedAt    time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	User     *User      `gorm:"foreignKey:UserID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one line of a sale. EarnedPoints is derived at processing
// time: floor(subtotal / 30), one point per 30 currency units.
type SaleItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ToneID       *uuid.UUID      `gorm:"type:uuid"`
	Quantity     int             `gorm:"not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EarnedPoints int             `gorm:"not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Tone    *Tone    `gorm:"foreignKey:ToneID"`
}

// Ref returns the stock reference this line was applied against.
func (i SaleItem) Ref() StockRef { return StockRef{ProductID: i.ProductID, ToneID: i.ToneID} }
