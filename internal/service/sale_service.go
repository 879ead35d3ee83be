package service

import (
	"context"
	"time"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"
	"glowpos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// pointsPerUnits: customers earn one loyalty point per 30 currency units of
// line subtotal, truncated. This is a fixed business constant — changing it
// breaks reconciliation of historical accumulated_points.
const pointsPerUnits = 30

type SaleService interface {
	RecordSale(ctx context.Context, userID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	scope      repository.TxScope
	sales      repository.SaleRepository
	customers  repository.CustomerRepository
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	scope repository.TxScope,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{scope: scope, sales: sales, customers: customers, dispatcher: dispatcher}
}

// earnedPointsFor computes floor(subtotal / 30), truncated toward zero.
func earnedPointsFor(subtotal decimal.Decimal) int {
	return int(subtotal.Div(decimal.NewFromInt(pointsPerUnits)).IntPart())
}

// saleLine is a request line with its ids parsed once at the boundary.
type saleLine struct {
	ref      model.StockRef
	quantity int
	subtotal decimal.Decimal
}

func parseSaleLines(items []dto.SaleLineRequest) ([]saleLine, decimal.Decimal, error) {
	lines := make([]saleLine, 0, len(items))
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
		if item.Subtotal.IsNegative() {
			return nil, decimal.Zero, invalidInputf("line %d: subtotal must not be negative", i+1)
		}
		lines = append(lines, saleLine{ref: ref, quantity: item.Quantity, subtotal: item.Subtotal})
		total = total.Add(item.Subtotal)
	}
	return lines, total, nil
}

// RecordSale drives one sale as a single atomic unit:
//
//	insert header (earned_points = 0)
//	per line, in input order: availability check, stock decrement,
//	    points derivation, line row, movement row
//	backfill header earned_points
//	loyalty recording when a customer is attached and points were earned
//
// Any failure rolls back the whole scope — no stock mutation, line,
// loyalty entry, or header survives a rejected line.
func (s *saleService) RecordSale(ctx context.Context, userID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if userID == uuid.Nil {
		return nil, invalidInputf("user id is required")
	}
	if len(req.Items) == 0 {
		return nil, invalidInputf("at least one line item is required")
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, invalidInputf("bad customer_id %q", *req.CustomerID)
		}
		customerID = &cid
	}

	lines, total, err := parseSaleLines(req.Items)
	if err != nil {
		return nil, err
	}

	var sale model.Sale
	var items []model.SaleItem

	txErr := s.scope.Atomic(ctx, func(r repository.Repos) error {
		sale = model.Sale{CustomerID: customerID, UserID: userID, Total: total}
		if err := r.Sales().Create(ctx, &sale); err != nil {
			return err
		}

		totalPoints := 0
		items = items[:0]
		for _, line := range lines {
			item, err := applySaleLine(ctx, r, &sale, line)
			if err != nil {
				return err
			}
			totalPoints += item.EarnedPoints
			items = append(items, *item)
		}

		if err := r.Sales().UpdateEarnedPoints(ctx, sale.ID, totalPoints); err != nil {
			return err
		}
		sale.EarnedPoints = totalPoints

		if customerID != nil && totalPoints > 0 {
			if err := r.Loyalty().RecordEarned(ctx, *customerID, sale.ID, totalPoints); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.dispatchReceipt(ctx, &sale)

	return saleToResponse(&sale, items), nil
}

// applySaleLine processes exactly one line against the stock ledger and
// writes the line and movement rows. Returns the persisted line.
func applySaleLine(ctx context.Context, r repository.Repos, sale *model.Sale, line saleLine) (*model.SaleItem, error) {
	available, err := r.Stock().Quantity(ctx, line.ref)
	if err != nil {
		return nil, err
	}
	if line.quantity > available {
		return nil, &repository.InsufficientStockError{
			Ref:       line.ref,
			Available: available,
			Requested: line.quantity,
		}
	}
	if err := r.Stock().Adjust(ctx, line.ref, -line.quantity); err != nil {
		return nil, err
	}

	item := model.SaleItem{
		SaleID:       sale.ID,
		ProductID:    line.ref.ProductID,
		ToneID:       line.ref.ToneID,
		Quantity:     line.quantity,
		Subtotal:     line.subtotal,
		EarnedPoints: earnedPointsFor(line.subtotal),
	}
	if err := r.Sales().CreateItem(ctx, &item); err != nil {
		return nil, err
	}

	mov := model.StockMovement{
		ProductID:   line.ref.ProductID,
		ToneID:      line.ref.ToneID,
		Type:        "sale",
		Delta:       -line.quantity,
		StockBefore: available,
		StockAfter:  available - line.quantity,
		ReferenceID: &sale.ID,
	}
	if err := r.Movements().Create(ctx, &mov); err != nil {
		return nil, err
	}
	return &item, nil
}

// dispatchReceipt enqueues the PDF receipt job when the sale has a customer
// with an email on file. Best effort — the sale is already committed.
func (s *saleService) dispatchReceipt(ctx context.Context, sale *model.Sale) {
	if s.dispatcher == nil || sale.CustomerID == nil {
		return
	}
	customer, err := s.customers.FindByID(ctx, *sale.CustomerID)
	if err != nil || customer.Email == nil || *customer.Email == "" {
		return
	}
	payload := worker.ReceiptJobPayload{
		SaleID:  sale.ID.String(),
		ToEmail: *customer.Email,
	}
	if err := s.dispatcher.EnqueueReceipt(ctx, payload); err != nil {
		log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to enqueue receipt job")
	}
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale, sale.Items), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i], sales[i].Items))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(sale *model.Sale, items []model.SaleItem) *dto.SaleResponse {
	lineResponses := make([]dto.SaleLineResponse, 0, len(items))
	for _, item := range items {
		line := dto.SaleLineResponse{
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
			EarnedPoints: item.EarnedPoints,
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

	resp := &dto.SaleResponse{
		ID:           sale.ID.String(),
		UserID:       sale.UserID.String(),
		Total:        sale.Total,
		EarnedPoints: sale.EarnedPoints,
		Items:        lineResponses,
		CreatedAt:    sale.CreatedAt.UTC().Format(time.RFC3339),
	}
	if sale.CustomerID != nil {
		cid := sale.CustomerID.String()
		resp.CustomerID = &cid
	}
	return resp
}
