package service

import (
	"context"
	"time"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseService interface {
	RecordPurchase(ctx context.Context, userID uuid.UUID, req dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	scope     repository.TxScope
	purchases repository.PurchaseRepository
}

func NewPurchaseService(scope repository.TxScope, purchases repository.PurchaseRepository) PurchaseService {
	return &purchaseService{scope: scope, purchases: purchases}
}

type purchaseLine struct {
	ref      model.StockRef
	quantity int
	unitCost decimal.Decimal
}

func parsePurchaseLines(items []dto.PurchaseLineRequest) ([]purchaseLine, decimal.Decimal, error) {
	lines := make([]purchaseLine, 0, len(items))
	total := decimal.Zero
	for i, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, invalidInputf("line %d: bad product_id %q", i+1, item.ProductID)
		}
		ref := model.StockRef{ProductID: pid}
		if item.ToneID != nil {
			tid, err := uuid.Parse(*item.ToneID)
			if err != nil {
				return nil, decimal.Zero, invalidInputf("line %d: bad tone_id %q", i+1, *item.ToneID)
			}
			ref.ToneID = &tid
		}
		if item.Quantity <= 0 {
			return nil, decimal.Zero, invalidInputf("line %d: quantity must be positive", i+1)
		}
		if item.UnitCost.IsNegative() {
			return nil, decimal.Zero, invalidInputf("line %d: unit_cost must not be negative", i+1)
		}
		lines = append(lines, purchaseLine{ref: ref, quantity: item.Quantity, unitCost: item.UnitCost})
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return lines, total, nil
}

// RecordPurchase registers a supplier purchase atomically: header row, then
// one stock increment, line row and movement row per line. A line against an
// unknown product or tone rolls back the whole purchase.
func (s *purchaseService) RecordPurchase(ctx context.Context, userID uuid.UUID, req dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error) {
	if userID == uuid.Nil {
		return nil, invalidInputf("user id is required")
	}
	if len(req.Items) == 0 {
		return nil, invalidInputf("at least one line item is required")
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, invalidInputf("bad supplier_id %q", *req.SupplierID)
		}
		supplierID = &sid
	}

	lines, total, err := parsePurchaseLines(req.Items)
	if err != nil {
		return nil, err
	}

	var purchase model.Purchase
	var items []model.PurchaseItem

	txErr := s.scope.Atomic(ctx, func(r repository.Repos) error {
		purchase = model.Purchase{SupplierID: supplierID, UserID: userID, Total: total}
		if err := r.Purchases().Create(ctx, &purchase); err != nil {
			return err
		}

		items = items[:0]
		for _, line := range lines {
			before, err := r.Stock().Quantity(ctx, line.ref)
			if err != nil {
				return err
			}
			if err := r.Stock().Adjust(ctx, line.ref, line.quantity); err != nil {
				return err
			}

			item := model.PurchaseItem{
				PurchaseID: purchase.ID,
				ProductID:  line.ref.ProductID,
				ToneID:     line.ref.ToneID,
				Quantity:   line.quantity,
				UnitCost:   line.unitCost,
			}
			if err := r.Purchases().CreateItem(ctx, &item); err != nil {
				return err
			}
			items = append(items, item)

			mov := model.StockMovement{
				ProductID:   line.ref.ProductID,
				ToneID:      line.ref.ToneID,
				Type:        "purchase",
				Delta:       line.quantity,
				StockBefore: before,
				StockAfter:  before + line.quantity,
				ReferenceID: &purchase.ID,
			}
			if err := r.Movements().Create(ctx, &mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return purchaseToResponse(&purchase, items), nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(purchase, purchase.Items), nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	purchases, total, err := s.purchases.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		data = append(data, *purchaseToResponse(&purchases[i], purchases[i].Items))
	}
	return &dto.PurchaseListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func purchaseToResponse(p *model.Purchase, items []model.PurchaseItem) *dto.PurchaseResponse {
	lineResponses := make([]dto.PurchaseLineResponse, 0, len(items))
	for _, item := range items {
		line := dto.PurchaseLineResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		}
		if item.ToneID != nil {
			tid := item.ToneID.String()
			line.ToneID = &tid
		}
		if item.Product != nil {
			line.Product = item.Product.Name
		}
		if item.Tone != nil {
			line.Tone = item.Tone.Name
		}
		lineResponses = append(lineResponses, line)
	}

	resp := &dto.PurchaseResponse{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Total:     p.Total,
		Items:     lineResponses,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.SupplierID != nil {
		sid := p.SupplierID.String()
		resp.SupplierID = &sid
	}
	return resp
}
