package service

import (
	"context"
	"time"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Search(ctx context.Context, term string) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)

	// LoyaltyHistory lists the customer's point ledger, newest first.
	LoyaltyHistory(ctx context.Context, id uuid.UUID) ([]dto.LoyaltyEntryResponse, error)
}

type customerService struct {
	customers repository.CustomerRepository
	loyalty   repository.LoyaltyRepository
}

func NewCustomerService(customers repository.CustomerRepository, loyalty repository.LoyaltyRepository) CustomerService {
	return &customerService{customers: customers, loyalty: loyalty}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := model.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.customers.Create(ctx, &customer); err != nil {
		return nil, err
	}
	return customerToResponse(&customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	return customersToResponses(customers), nil
}

func (s *customerService) Search(ctx context.Context, term string) ([]dto.CustomerResponse, error) {
	if term == "" {
		return nil, invalidInputf("search term is required")
	}
	customers, err := s.customers.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return customersToResponses(customers), nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Email = req.Email
	customer.Phone = req.Phone
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) LoyaltyHistory(ctx context.Context, id uuid.UUID) ([]dto.LoyaltyEntryResponse, error) {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.loyalty.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LoyaltyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LoyaltyEntryResponse{
			ID:        e.ID.String(),
			SaleID:    e.SaleID.String(),
			Points:    e.Points,
			Type:      e.Type,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

func customersToResponses(customers []model.Customer) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:                c.ID.String(),
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		AccumulatedPoints: c.AccumulatedPoints,
		CreatedAt:         c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
