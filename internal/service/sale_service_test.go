package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func strp(s string) *string { return &s }

func newSaleFixture(t *testing.T) (*repository.MemoryScope, SaleService) {
	t.Helper()
	scope := repository.NewMemoryScope()
	svc := NewSaleService(scope, nil, nil, nil)
	return scope, svc
}

func TestEarnedPointsFor(t *testing.T) {
	cases := []struct {
		subtotal string
		want     int
	}{
		{"0", 0},
		{"29", 0},
		{"29.99", 0},
		{"30", 1},
		{"59.99", 1},
		{"60", 2},
		{"97", 3},
		{"90", 3},
		{"300", 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, earnedPointsFor(dec(tc.subtotal)), "subtotal %s", tc.subtotal)
	}
}

func TestRecordSale_DecrementsStockAndAccruesPoints(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "LIP-001", Name: "Lipstick", Quantity: 10}
	scope.SeedProduct(&product)
	customer := model.Customer{ID: uuid.New(), FirstName: "Ana", LastName: "Reyes"}
	scope.SeedCustomer(&customer)

	custID := customer.ID.String()
	resp, err := svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		CustomerID: &custID,
		Items: []dto.SaleLineRequest{
			{ProductID: product.ID.String(), Quantity: 2, Subtotal: dec("97.00")},
			{ProductID: product.ID.String(), Quantity: 1, Subtotal: dec("29.00")},
		},
	})
	require.NoError(t, err)

	// 97 → 3 points, 29 → 0 points
	assert.Equal(t, 3, resp.EarnedPoints)
	assert.True(t, resp.Total.Equal(dec("126.00")))

	// Timestamps are emitted as RFC 3339 in UTC
	ts, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.Items[0].EarnedPoints)
	assert.Equal(t, 0, resp.Items[1].EarnedPoints)

	qty, err := scope.Quantity(model.StockRef{ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, 7, qty)

	// Exactly one loyalty entry with the sale's total points
	entries := scope.LoyaltyEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Points)
	assert.Equal(t, model.LoyaltyEarned, entries[0].Type)
	assert.Equal(t, customer.ID, entries[0].CustomerID)

	// Balance maintained incrementally
	c, ok := scope.Customer(customer.ID)
	require.True(t, ok)
	assert.Equal(t, 3, c.AccumulatedPoints)

	// One movement per line with before/after counters
	movements := scope.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, "sale", movements[0].Type)
	assert.Equal(t, -2, movements[0].Delta)
	assert.Equal(t, 10, movements[0].StockBefore)
	assert.Equal(t, 8, movements[0].StockAfter)
	assert.Equal(t, -1, movements[1].Delta)
	assert.Equal(t, 8, movements[1].StockBefore)
	assert.Equal(t, 7, movements[1].StockAfter)
}

func TestRecordSale_InsufficientStockRollsBackEverything(t *testing.T) {
	scope, svc := newSaleFixture(t)

	p1 := model.Product{ID: uuid.New(), Code: "P1", Name: "Mascara", Quantity: 10}
	p2 := model.Product{ID: uuid.New(), Code: "P2", Name: "Eyeliner", Quantity: 1}
	scope.SeedProduct(&p1)
	scope.SeedProduct(&p2)
	customer := model.Customer{ID: uuid.New(), FirstName: "Ana", LastName: "Reyes"}
	scope.SeedCustomer(&customer)

	custID := customer.ID.String()
	_, err := svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		CustomerID: &custID,
		Items: []dto.SaleLineRequest{
			{ProductID: p1.ID.String(), Quantity: 5, Subtotal: dec("100")},
			{ProductID: p2.ID.String(), Quantity: 3, Subtotal: dec("60")},
		},
	})

	var insufficient *repository.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	// First line's decrement must not survive the failed second line
	qty1, _ := scope.Quantity(model.StockRef{ProductID: p1.ID})
	qty2, _ := scope.Quantity(model.StockRef{ProductID: p2.ID})
	assert.Equal(t, 10, qty1)
	assert.Equal(t, 1, qty2)

	assert.Empty(t, scope.Sales())
	assert.Empty(t, scope.SaleItems())
	assert.Empty(t, scope.LoyaltyEntries())
	assert.Empty(t, scope.Movements())

	c, _ := scope.Customer(customer.ID)
	assert.Equal(t, 0, c.AccumulatedPoints)
}

func TestRecordSale_UnknownProductRollsBack(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "P1", Name: "Blush", Quantity: 5}
	scope.SeedProduct(&product)

	_, err := svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: product.ID.String(), Quantity: 1, Subtotal: dec("10")},
			{ProductID: uuid.NewString(), Quantity: 1, Subtotal: dec("10")},
		},
	})

	var notFound *repository.NotFoundError
	require.ErrorAs(t, err, &notFound)

	qty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
	assert.Equal(t, 5, qty)
	assert.Empty(t, scope.Sales())
}

func TestRecordSale_AnonymousSaleAccruesNoPoints(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "P1", Name: "Serum", Quantity: 5}
	scope.SeedProduct(&product)

	resp, err := svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: product.ID.String(), Quantity: 1, Subtotal: dec("300")},
		},
	})
	require.NoError(t, err)

	// Points are still derived and stored on the sale, but no ledger entry
	assert.Equal(t, 10, resp.EarnedPoints)
	assert.Empty(t, scope.LoyaltyEntries())
}

func TestRecordSale_ZeroPointsWritesNoLoyaltyEntry(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "P1", Name: "Sample", Quantity: 5}
	scope.SeedProduct(&product)
	customer := model.Customer{ID: uuid.New(), FirstName: "Ana", LastName: "Reyes"}
	scope.SeedCustomer(&customer)

	custID := customer.ID.String()
	resp, err := svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		CustomerID: &custID,
		Items: []dto.SaleLineRequest{
			{ProductID: product.ID.String(), Quantity: 1, Subtotal: dec("29.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.EarnedPoints)
	assert.Empty(t, scope.LoyaltyEntries())
	c, _ := scope.Customer(customer.ID)
	assert.Equal(t, 0, c.AccumulatedPoints)
}

func TestRecordSale_ToneLevelStock(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "FND-01", Name: "Foundation", Quantity: 0}
	scope.SeedProduct(&product)
	tone := model.Tone{ID: uuid.New(), ProductID: product.ID, Name: "Porcelain", Quantity: 4}
	scope.SeedTone(&tone)

	toneID := tone.ID.String()
	_, err := svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: product.ID.String(), ToneID: &toneID, Quantity: 3, Subtotal: dec("45")},
		},
	})
	require.NoError(t, err)

	toneQty, _ := scope.Quantity(model.StockRef{ProductID: product.ID, ToneID: &tone.ID})
	productQty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
	assert.Equal(t, 1, toneQty)
	assert.Equal(t, 0, productQty) // parent counter untouched

	// Selling 2 more must fail: only 1 left in this tone
	_, err = svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: product.ID.String(), ToneID: &toneID, Quantity: 2, Subtotal: dec("30")},
		},
	})
	var insufficient *repository.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
}

func TestRecordSale_InputValidation(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "P1", Name: "Toner", Quantity: 5}
	scope.SeedProduct(&product)

	cases := []struct {
		name   string
		userID uuid.UUID
		req    dto.RecordSaleRequest
	}{
		{"missing user", uuid.Nil, dto.RecordSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: product.ID.String(), Quantity: 1, Subtotal: dec("10")}},
		}},
		{"empty items", uuid.New(), dto.RecordSaleRequest{}},
		{"bad product id", uuid.New(), dto.RecordSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: "not-a-uuid", Quantity: 1, Subtotal: dec("10")}},
		}},
		{"bad customer id", uuid.New(), dto.RecordSaleRequest{
			CustomerID: strp("nope"),
			Items:      []dto.SaleLineRequest{{ProductID: product.ID.String(), Quantity: 1, Subtotal: dec("10")}},
		}},
		{"zero quantity", uuid.New(), dto.RecordSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: product.ID.String(), Quantity: 0, Subtotal: dec("10")}},
		}},
		{"negative subtotal", uuid.New(), dto.RecordSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: product.ID.String(), Quantity: 1, Subtotal: dec("-1")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordSale(context.Background(), tc.userID, tc.req)
			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			// Nothing may touch the store on validation failures
			qty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
			assert.Equal(t, 5, qty)
			assert.Empty(t, scope.Sales())
		})
	}
}

func TestRecordSale_ConcurrentExactStock(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "P1", Name: "Gloss", Quantity: 10}
	scope.SeedProduct(&product)

	// Two concurrent sales of 5 each against stock 10: both must succeed
	// and the counter must land exactly at 0 — no lost update.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
				Items: []dto.SaleLineRequest{
					{ProductID: product.ID.String(), Quantity: 5, Subtotal: dec("50")},
				},
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	qty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
	assert.Equal(t, 0, qty)
	assert.Len(t, scope.Sales(), 2)
}

func TestRecordSale_ConcurrentOversell(t *testing.T) {
	scope, svc := newSaleFixture(t)

	product := model.Product{ID: uuid.New(), Code: "P1", Name: "Palette", Quantity: 10}
	scope.SeedProduct(&product)

	// Two concurrent sales of 8 each against stock 10: exactly one commits.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
				Items: []dto.SaleLineRequest{
					{ProductID: product.ID.String(), Quantity: 8, Subtotal: dec("80")},
				},
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			var insufficient *repository.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	qty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
	assert.Equal(t, 2, qty)
	assert.Len(t, scope.Sales(), 1)
}
