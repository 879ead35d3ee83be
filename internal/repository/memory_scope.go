package repository

import (
	"context"
	"sync"
	"time"

	"glowpos/internal/dto"
	"glowpos/internal/model"

	"github.com/google/uuid"
)

// MemoryScope is an in-memory TxScope for unit tests and local development.
// Atomic runs fn against a copy of the state and swaps it in only on
// success, so rollback semantics match the database-backed scope. A single
// mutex serializes scopes, which trivially satisfies the no-lost-update
// guarantee (every interleaving is a sequential ordering).
type MemoryScope struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	products  map[uuid.UUID]*model.Product
	tones     map[uuid.UUID]*model.Tone
	customers map[uuid.UUID]*model.Customer

	sales         map[uuid.UUID]*model.Sale
	saleItems     []model.SaleItem
	purchases     map[uuid.UUID]*model.Purchase
	purchaseItems []model.PurchaseItem
	loyalty       []model.LoyaltyEntry
	movements     []model.StockMovement
}

func newMemState() *memState {
	return &memState{
		products:  make(map[uuid.UUID]*model.Product),
		tones:     make(map[uuid.UUID]*model.Tone),
		customers: make(map[uuid.UUID]*model.Customer),
		sales:     make(map[uuid.UUID]*model.Sale),
		purchases: make(map[uuid.UUID]*model.Purchase),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, t := range s.tones {
		ct := *t
		c.tones[id] = &ct
	}
	for id, cu := range s.customers {
		cc := *cu
		c.customers[id] = &cc
	}
	for id, sa := range s.sales {
		cs := *sa
		c.sales[id] = &cs
	}
	for id, pu := range s.purchases {
		cp := *pu
		c.purchases[id] = &cp
	}
	c.saleItems = append([]model.SaleItem(nil), s.saleItems...)
	c.purchaseItems = append([]model.PurchaseItem(nil), s.purchaseItems...)
	c.loyalty = append([]model.LoyaltyEntry(nil), s.loyalty...)
	c.movements = append([]model.StockMovement(nil), s.movements...)
	return c
}

func NewMemoryScope() *MemoryScope {
	return &MemoryScope{state: newMemState()}
}

func (s *MemoryScope) Atomic(_ context.Context, fn func(r Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&memRepos{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// ── Seeding and inspection helpers (test support) ────────────────────────────

func (s *MemoryScope) SeedProduct(p *model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	s.state.products[p.ID] = &cp
}

func (s *MemoryScope) SeedTone(t *model.Tone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	ct := *t
	s.state.tones[t.ID] = &ct
}

func (s *MemoryScope) SeedCustomer(c *model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cc := *c
	s.state.customers[c.ID] = &cc
}

// Quantity reads the committed counter for ref.
func (s *MemoryScope) Quantity(ref model.StockRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memStock{state: s.state}).Quantity(context.Background(), ref)
}

func (s *MemoryScope) Customer(id uuid.UUID) (*model.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.customers[id]
	if !ok {
		return nil, false
	}
	cc := *c
	return &cc, true
}

func (s *MemoryScope) Sales() []model.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Sale, 0, len(s.state.sales))
	for _, sa := range s.state.sales {
		out = append(out, *sa)
	}
	return out
}

func (s *MemoryScope) SaleItems() []model.SaleItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SaleItem(nil), s.state.saleItems...)
}

func (s *MemoryScope) Purchases() []model.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Purchase, 0, len(s.state.purchases))
	for _, p := range s.state.purchases {
		out = append(out, *p)
	}
	return out
}

func (s *MemoryScope) PurchaseItems() []model.PurchaseItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.PurchaseItem(nil), s.state.purchaseItems...)
}

func (s *MemoryScope) LoyaltyEntries() []model.LoyaltyEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LoyaltyEntry(nil), s.state.loyalty...)
}

func (s *MemoryScope) Movements() []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockMovement(nil), s.state.movements...)
}

// ── Scoped repositories ──────────────────────────────────────────────────────

type memRepos struct {
	state *memState
}

func (r *memRepos) Stock() StockRepository             { return &memStock{state: r.state} }
func (r *memRepos) Sales() SaleRepository              { return &memSales{state: r.state} }
func (r *memRepos) Purchases() PurchaseRepository      { return &memPurchases{state: r.state} }
func (r *memRepos) Loyalty() LoyaltyRepository         { return &memLoyalty{state: r.state} }
func (r *memRepos) Movements() StockMovementRepository { return &memMovements{state: r.state} }

type memStock struct{ state *memState }

func (r *memStock) Quantity(_ context.Context, ref model.StockRef) (int, error) {
	if ref.ToneID != nil {
		t, ok := r.state.tones[*ref.ToneID]
		if !ok || t.ProductID != ref.ProductID {
			return 0, &NotFoundError{Entity: "tone", Ref: ref.String()}
		}
		return t.Quantity, nil
	}
	p, ok := r.state.products[ref.ProductID]
	if !ok {
		return 0, &NotFoundError{Entity: "product", Ref: ref.String()}
	}
	return p.Quantity, nil
}

func (r *memStock) Adjust(ctx context.Context, ref model.StockRef, delta int) error {
	current, err := r.Quantity(ctx, ref)
	if err != nil {
		return err
	}
	if current+delta < 0 {
		return &InsufficientStockError{Ref: ref, Available: current, Requested: -delta}
	}
	if ref.ToneID != nil {
		r.state.tones[*ref.ToneID].Quantity = current + delta
	} else {
		r.state.products[ref.ProductID].Quantity = current + delta
	}
	return nil
}

type memSales struct{ state *memState }

func (r *memSales) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	cp := *s
	r.state.sales[s.ID] = &cp
	return nil
}

func (r *memSales) CreateItem(_ context.Context, item *model.SaleItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.state.saleItems = append(r.state.saleItems, *item)
	return nil
}

func (r *memSales) UpdateEarnedPoints(_ context.Context, id uuid.UUID, points int) error {
	s, ok := r.state.sales[id]
	if !ok {
		return &NotFoundError{Entity: "sale", Ref: id.String()}
	}
	s.EarnedPoints = points
	return nil
}

func (r *memSales) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.state.sales[id]
	if !ok {
		return nil, &NotFoundError{Entity: "sale", Ref: id.String()}
	}
	cp := *s
	return &cp, nil
}

func (r *memSales) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.state.sales))
	for _, s := range r.state.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type memPurchases struct{ state *memState }

func (r *memPurchases) Create(_ context.Context, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	cp := *p
	r.state.purchases[p.ID] = &cp
	return nil
}

func (r *memPurchases) CreateItem(_ context.Context, item *model.PurchaseItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.state.purchaseItems = append(r.state.purchaseItems, *item)
	return nil
}

func (r *memPurchases) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.state.purchases[id]
	if !ok {
		return nil, &NotFoundError{Entity: "purchase", Ref: id.String()}
	}
	cp := *p
	return &cp, nil
}

func (r *memPurchases) List(_ context.Context, _ dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	out := make([]model.Purchase, 0, len(r.state.purchases))
	for _, p := range r.state.purchases {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type memLoyalty struct{ state *memState }

func (r *memLoyalty) RecordEarned(_ context.Context, customerID, saleID uuid.UUID, points int) error {
	c, ok := r.state.customers[customerID]
	if !ok {
		return &NotFoundError{Entity: "customer", Ref: customerID.String()}
	}
	c.AccumulatedPoints += points
	r.state.loyalty = append(r.state.loyalty, model.LoyaltyEntry{
		ID:         uuid.New(),
		CustomerID: customerID,
		SaleID:     saleID,
		Points:     points,
		Type:       model.LoyaltyEarned,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (r *memLoyalty) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.LoyaltyEntry, error) {
	var out []model.LoyaltyEntry
	for _, e := range r.state.loyalty {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memMovements struct{ state *memState }

func (r *memMovements) Create(_ context.Context, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.state.movements = append(r.state.movements, *m)
	return nil
}

func (r *memMovements) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.state.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ TxScope = (*MemoryScope)(nil)
var _ Repos = (*memRepos)(nil)
