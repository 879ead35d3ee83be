package dto

type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"  validate:"required"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Phone     *string `json:"phone"`
}

type UpdateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"  validate:"required"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Phone     *string `json:"phone"`
}

type CustomerResponse struct {
	ID                string  `json:"id"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	AccumulatedPoints int     `json:"accumulated_points"`
	CreatedAt         string  `json:"created_at"`
}

type LoyaltyEntryResponse struct {
	ID        string `json:"id"`
	SaleID    string `json:"sale_id"`
	Points    int    `json:"points"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}
