package dto

// StockMovementResponse is one row of a product's stock audit trail.
type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ToneID      *string `json:"tone_id,omitempty"`
	Type        string  `json:"type"` // "sale" | "purchase"
	Delta       int     `json:"delta"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
