package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every stock change applied by the transaction
// engine, with before/after counters for auditing.
type StockMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ToneID      *uuid.UUID `gorm:"type:uuid;index"`
	Type        string     `gorm:"not null"` // "sale" | "purchase" | "manual_adjust"
	Delta       int        `gorm:"not null"` // positive = inbound, negative = outbound
	StockBefore int        `gorm:"not null"`
	StockAfter  int        `gorm:"not null"`
	// ReferenceID links to the originating Sale or Purchase
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
