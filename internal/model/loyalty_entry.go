package model

import (
	"time"

	"github.com/google/uuid"
)

// Loyalty entry types. "redeemed" is reserved for a future redemption flow;
// the engine currently only writes "earned" entries.
const (
	LoyaltyEarned   = "earned"
	LoyaltyRedeemed = "redeemed"
)

// LoyaltyEntry is an immutable event in the customer points ledger.
// Entries are NEVER modified or deleted — corrections create inverse rows.
type LoyaltyEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	SaleID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Points     int       `gorm:"not null"`
	Type       string    `gorm:"type:varchar(20);not null"` // "earned" | "redeemed"
	CreatedAt  time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

// TableName overrides GORM's default pluralization (loyalty_entrys → loyalty_entries).
func (LoyaltyEntry) TableName() string { return "loyalty_entries" }
