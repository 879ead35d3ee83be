package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Code       string `form:"code"`
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	SupplierID string `form:"supplier_id"`
	Active     string `form:"active"` // "" = active only | "false" | "all"
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// CreateProductRequest is bound from the multipart form of POST /v1/products;
// the optional product image arrives as the "image" file field.
type CreateProductRequest struct {
	Code          string          `form:"code"  validate:"required"`
	Name          string          `form:"name"  validate:"required"`
	Brand         *string         `form:"brand"`
	Description   *string         `form:"description"`
	CategoryID    *string         `form:"category_id"    validate:"omitempty,uuid"`
	SubcategoryID *string         `form:"subcategory_id" validate:"omitempty,uuid"`
	SupplierID    *string         `form:"supplier_id"    validate:"omitempty,uuid"`
	PurchasePrice decimal.Decimal `form:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `form:"sale_price"     validate:"min=0"`
	Quantity      int             `form:"quantity"       validate:"min=0"`
	MinStock      int             `form:"min_stock"      validate:"min=0"`
}

type UpdateProductRequest struct {
	Name          string          `form:"name" validate:"required"`
	Brand         *string         `form:"brand"`
	Description   *string         `form:"description"`
	CategoryID    *string         `form:"category_id"    validate:"omitempty,uuid"`
	SubcategoryID *string         `form:"subcategory_id" validate:"omitempty,uuid"`
	SupplierID    *string         `form:"supplier_id"    validate:"omitempty,uuid"`
	PurchasePrice decimal.Decimal `form:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `form:"sale_price"     validate:"min=0"`
	MinStock      int             `form:"min_stock"      validate:"min=0"`
}

type CreateToneRequest struct {
	Name     string `json:"name"     validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

type ToneResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Brand         *string         `json:"brand,omitempty"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    *string         `json:"category_id,omitempty"`
	SubcategoryID *string         `json:"subcategory_id,omitempty"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Quantity      int             `json:"quantity"`
	MinStock      int             `json:"min_stock"`
	ImageURL      *string         `json:"image_url,omitempty"`
	Active        bool            `json:"active"`
	Tones         []ToneResponse  `json:"tones,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceResponse is the cached payload of GET /v1/price/:code.
type PriceResponse struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"sale_price"`
}
