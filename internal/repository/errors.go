package repository

import (
	"errors"
	"fmt"

	"glowpos/internal/model"
)

// ErrStoreConflict wraps database-level serialization failures (deadlocks,
// lock timeouts). It is the only error kind a caller may retry verbatim.
var ErrStoreConflict = errors.New("store conflict")

// NotFoundError reports a missing product, tone, or customer reference.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

// InsufficientStockError reports a sale line that would drive a stock
// counter negative. Available and Requested give the caller enough context
// to correct the input.
type InsufficientStockError struct {
	Ref       model.StockRef
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.Ref, e.Available, e.Requested)
}
