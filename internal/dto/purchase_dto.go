package dto

import "github.com/shopspring/decimal"

type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	ToneID    *string         `json:"tone_id"    validate:"omitempty,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"min=0"`
}

type RecordPurchaseRequest struct {
	SupplierID *string               `json:"supplier_id" validate:"omitempty,uuid"`
	Items      []PurchaseLineRequest `json:"items"       validate:"required,min=1,dive"`
}

// PurchaseFilter is bound from the query string of GET /v1/purchases.
type PurchaseFilter struct {
	Date       string `form:"date"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type PurchaseLineResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	ToneID    *string         `json:"tone_id,omitempty"`
	Tone      string          `json:"tone,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID *string                `json:"supplier_id,omitempty"`
	UserID     string                 `json:"user_id"`
	Total      decimal.Decimal        `json:"total"`
	Items      []PurchaseLineResponse `json:"items"`
	CreatedAt  string                 `json:"created_at"`
}
