package service

import (
	"context"
	"testing"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchaseFixture(t *testing.T) (*repository.MemoryScope, PurchaseService) {
	t.Helper()
	scope := repository.NewMemoryScope()
	svc := NewPurchaseService(scope, nil)
	return scope, svc
}

func TestRecordPurchase_IncrementsStock(t *testing.T) {
	scope, svc := newPurchaseFixture(t)

	product := model.Product{ID: uuid.New(), Code: "SRM-01", Name: "Serum", Quantity: 3}
	scope.SeedProduct(&product)

	resp, err := svc.RecordPurchase(context.Background(), uuid.New(), dto.RecordPurchaseRequest{
		Items: []dto.PurchaseLineRequest{
			{ProductID: product.ID.String(), Quantity: 2, UnitCost: dec("10.50")},
			{ProductID: product.ID.String(), Quantity: 3, UnitCost: dec("5.00")},
		},
	})
	require.NoError(t, err)

	// total = 2×10.50 + 3×5.00
	assert.True(t, resp.Total.Equal(dec("36.00")), "got total %s", resp.Total)
	require.Len(t, resp.Items, 2)

	qty, err := scope.Quantity(model.StockRef{ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, 8, qty)

	require.Len(t, scope.Purchases(), 1)
	require.Len(t, scope.PurchaseItems(), 2)

	movements := scope.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, "purchase", movements[0].Type)
	assert.Equal(t, 2, movements[0].Delta)
	assert.Equal(t, 3, movements[0].StockBefore)
	assert.Equal(t, 5, movements[0].StockAfter)
	assert.Equal(t, 3, movements[1].Delta)
	assert.Equal(t, 5, movements[1].StockBefore)
	assert.Equal(t, 8, movements[1].StockAfter)
}

func TestRecordPurchase_ToneVariant(t *testing.T) {
	scope, svc := newPurchaseFixture(t)

	product := model.Product{ID: uuid.New(), Code: "FND-01", Name: "Foundation"}
	scope.SeedProduct(&product)
	tone := model.Tone{ID: uuid.New(), ProductID: product.ID, Name: "Sand", Quantity: 1}
	scope.SeedTone(&tone)

	toneID := tone.ID.String()
	_, err := svc.RecordPurchase(context.Background(), uuid.New(), dto.RecordPurchaseRequest{
		Items: []dto.PurchaseLineRequest{
			{ProductID: product.ID.String(), ToneID: &toneID, Quantity: 6, UnitCost: dec("8.00")},
		},
	})
	require.NoError(t, err)

	toneQty, _ := scope.Quantity(model.StockRef{ProductID: product.ID, ToneID: &tone.ID})
	productQty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
	assert.Equal(t, 7, toneQty)
	assert.Equal(t, 0, productQty)
}

func TestRecordPurchase_UnknownProductRollsBack(t *testing.T) {
	scope, svc := newPurchaseFixture(t)

	product := model.Product{ID: uuid.New(), Code: "P1", Name: "Cleanser", Quantity: 2}
	scope.SeedProduct(&product)

	_, err := svc.RecordPurchase(context.Background(), uuid.New(), dto.RecordPurchaseRequest{
		Items: []dto.PurchaseLineRequest{
			{ProductID: product.ID.String(), Quantity: 4, UnitCost: dec("3.00")},
			{ProductID: uuid.NewString(), Quantity: 1, UnitCost: dec("3.00")},
		},
	})

	var notFound *repository.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// First line's increment must not survive the failed second line
	qty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
	assert.Equal(t, 2, qty)
	assert.Empty(t, scope.Purchases())
	assert.Empty(t, scope.PurchaseItems())
	assert.Empty(t, scope.Movements())
}

func TestRecordPurchase_InputValidation(t *testing.T) {
	_, svc := newPurchaseFixture(t)

	cases := []struct {
		name   string
		userID uuid.UUID
		req    dto.RecordPurchaseRequest
	}{
		{"missing user", uuid.Nil, dto.RecordPurchaseRequest{
			Items: []dto.PurchaseLineRequest{{ProductID: uuid.NewString(), Quantity: 1, UnitCost: dec("1")}},
		}},
		{"empty items", uuid.New(), dto.RecordPurchaseRequest{}},
		{"bad supplier id", uuid.New(), dto.RecordPurchaseRequest{
			SupplierID: strp("nope"),
			Items:      []dto.PurchaseLineRequest{{ProductID: uuid.NewString(), Quantity: 1, UnitCost: dec("1")}},
		}},
		{"zero quantity", uuid.New(), dto.RecordPurchaseRequest{
			Items: []dto.PurchaseLineRequest{{ProductID: uuid.NewString(), Quantity: 0, UnitCost: dec("1")}},
		}},
		{"negative unit cost", uuid.New(), dto.RecordPurchaseRequest{
			Items: []dto.PurchaseLineRequest{{ProductID: uuid.NewString(), Quantity: 1, UnitCost: dec("-1")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordPurchase(context.Background(), tc.userID, tc.req)
			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestPurchaseThenSaleSequence(t *testing.T) {
	scope := repository.NewMemoryScope()
	purchaseSvc := NewPurchaseService(scope, nil)
	saleSvc := NewSaleService(scope, nil, nil, nil)

	product := model.Product{ID: uuid.New(), Code: "LIP-09", Name: "Lip Oil"}
	scope.SeedProduct(&product)

	_, err := purchaseSvc.RecordPurchase(context.Background(), uuid.New(), dto.RecordPurchaseRequest{
		Items: []dto.PurchaseLineRequest{
			{ProductID: product.ID.String(), Quantity: 5, UnitCost: dec("4.00")},
		},
	})
	require.NoError(t, err)

	_, err = saleSvc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: product.ID.String(), Quantity: 3, Subtotal: dec("27.00")},
		},
	})
	require.NoError(t, err)

	qty, _ := scope.Quantity(model.StockRef{ProductID: product.ID})
	assert.Equal(t, 2, qty)

	// purchase + sale each leave one movement row
	movements := scope.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, "purchase", movements[0].Type)
	assert.Equal(t, "sale", movements[1].Type)
}
