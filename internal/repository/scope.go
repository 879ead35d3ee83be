package repository

import (
	"context"
)

// TxScope opens the atomic scope that owns every write of one inventory
// transaction. All repository operations performed through the Repos handed
// to fn share one database transaction: if fn returns an error the whole
// scope is rolled back and no write — stock adjustment, header, line, or
// loyalty entry — persists.
type TxScope interface {
	Atomic(ctx context.Context, fn func(r Repos) error) error
}

// Repos provides access to the repositories bound to the current scope.
type Repos interface {
	Stock() StockRepository
	Sales() SaleRepository
	Purchases() PurchaseRepository
	Loyalty() LoyaltyRepository
	Movements() StockMovementRepository
}
