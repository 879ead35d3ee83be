package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	ToneID    *string         `json:"tone_id"    validate:"omitempty,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	Subtotal  decimal.Decimal `json:"subtotal"   validate:"min=0"`
}

type RecordSaleRequest struct {
	// CustomerID nil = anonymous sale; no points are accrued
	CustomerID *string           `json:"customer_id" validate:"omitempty,uuid"`
	Items      []SaleLineRequest `json:"items"       validate:"required,min=1,dive"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date       string `form:"date"` // YYYY-MM-DD; empty = all
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type SaleLineResponse struct {
	ProductID    string          `json:"product_id"`
	Product      string          `json:"product,omitempty"`
	ToneID       *string         `json:"tone_id,omitempty"`
	Tone         string          `json:"tone,omitempty"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	EarnedPoints int             `json:"earned_points"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	CustomerID   *string            `json:"customer_id,omitempty"`
	UserID       string             `json:"user_id"`
	Total        decimal.Decimal    `json:"total"`
	EarnedPoints int                `json:"earned_points"`
	Items        []SaleLineResponse `json:"items"`
	CreatedAt    string             `json:"created_at"`
}
