package service

import (
	"context"
	"testing"
	"time"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo(customers ...*model.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, &repository.NotFoundError{Entity: "customer", Ref: id.String()}
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Search(_ context.Context, term string) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.FirstName == term || c.LastName == term {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

type stubLoyaltyRepo struct {
	entries []model.LoyaltyEntry
}

func (r *stubLoyaltyRepo) RecordEarned(_ context.Context, customerID, saleID uuid.UUID, points int) error {
	r.entries = append(r.entries, model.LoyaltyEntry{
		ID:         uuid.New(),
		CustomerID: customerID,
		SaleID:     saleID,
		Points:     points,
		Type:       model.LoyaltyEarned,
	})
	return nil
}

func (r *stubLoyaltyRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.LoyaltyEntry, error) {
	var out []model.LoyaltyEntry
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repository.LoyaltyRepository = (*stubLoyaltyRepo)(nil)

func TestCustomerCreateAndGet(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo, &stubLoyaltyRepo{})

	created, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     strp("ana@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.AccumulatedPoints)

	id := uuid.MustParse(created.ID)
	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "Reyes", got.LastName)
}

func TestCustomerGet_NotFound(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo(), &stubLoyaltyRepo{})

	_, err := svc.Get(context.Background(), uuid.New())
	var notFound *repository.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCustomerSearch_EmptyTerm(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo(), &stubLoyaltyRepo{})

	_, err := svc.Search(context.Background(), "")
	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestLoyaltyHistory(t *testing.T) {
	customer := &model.Customer{ID: uuid.New(), FirstName: "Ana", LastName: "Reyes", AccumulatedPoints: 5}
	loyalty := &stubLoyaltyRepo{entries: []model.LoyaltyEntry{
		{ID: uuid.New(), CustomerID: customer.ID, SaleID: uuid.New(), Points: 3, Type: model.LoyaltyEarned, CreatedAt: time.Now()},
		{ID: uuid.New(), CustomerID: customer.ID, SaleID: uuid.New(), Points: 2, Type: model.LoyaltyEarned, CreatedAt: time.Now()},
		{ID: uuid.New(), CustomerID: uuid.New(), SaleID: uuid.New(), Points: 9, Type: model.LoyaltyEarned, CreatedAt: time.Now()},
	}}
	svc := NewCustomerService(newStubCustomerRepo(customer), loyalty)

	history, err := svc.LoyaltyHistory(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].Points)
	assert.Equal(t, model.LoyaltyEarned, history[0].Type)
}

func TestLoyaltyHistory_UnknownCustomer(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo(), &stubLoyaltyRepo{})

	_, err := svc.LoyaltyHistory(context.Background(), uuid.New())
	var notFound *repository.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
