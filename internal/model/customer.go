package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer accrues loyalty points on sales. AccumulatedPoints is maintained
// incrementally on each sale commit — it is never recomputed from history,
// so it must always equal the sum of earned minus redeemed LoyaltyEntry rows.
type Customer struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName         string    `gorm:"not null"`
	LastName          string    `gorm:"not null"`
	Email             *string
	Phone             *string
	AccumulatedPoints int `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
