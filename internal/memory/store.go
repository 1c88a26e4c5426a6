// Package memory is an in-process implementation of the checkout store,
// used by tests and local development without Postgres. The unit of work
// snapshots all tables and restores them when the callback fails, matching
// the rollback contract of the SQL implementation.
package memory

import (
	"context"
	"sync"
	"time"

	"wompi-checkout/internal/checkout"
)

type Store struct {
	mu        sync.Mutex
	products  map[string]checkout.Product
	customers map[string]checkout.Customer // by id
	orders    map[string]checkout.Order
	payments  map[string]checkout.Payment
	items     map[string]checkout.PaymentItem
}

func NewStore() *Store {
	return &Store{
		products:  map[string]checkout.Product{},
		customers: map[string]checkout.Customer{},
		orders:    map[string]checkout.Order{},
		payments:  map[string]checkout.Payment{},
		items:     map[string]checkout.PaymentItem{},
	}
}

func (s *Store) Products() checkout.ProductRepo   { return productRepo{s} }
func (s *Store) Customers() checkout.CustomerRepo { return customerRepo{s} }
func (s *Store) Orders() checkout.OrderRepo       { return orderRepo{s} }
func (s *Store) Payments() checkout.PaymentRepo   { return paymentRepo{s} }

// Seed inserts a product directly, bypassing the repo interface. Test helper.
func (s *Store) Seed(p checkout.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
	}
	s.products[p.ID] = p
}

// Snapshot-style counters used by tests to assert that nothing leaked out
// of a rolled-back saga.
func (s *Store) Counts() (orders, customers, payments, items int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders), len(s.customers), len(s.payments), len(s.items)
}

func (s *Store) ProductStock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *Store) PaymentItems() []checkout.PaymentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]checkout.PaymentItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	return out
}

// UnitOfWork serializes callbacks and restores the pre-call state when fn
// returns an error.
type UnitOfWork struct {
	S  *Store
	mu sync.Mutex
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, s checkout.Store) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap := u.S.clone()
	if err := fn(ctx, u.S); err != nil {
		u.S.restore(snap)
		return err
	}
	return nil
}

type tables struct {
	products  map[string]checkout.Product
	customers map[string]checkout.Customer
	orders    map[string]checkout.Order
	payments  map[string]checkout.Payment
	items     map[string]checkout.PaymentItem
}

func (s *Store) clone() tables {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tables{
		products:  copyMap(s.products),
		customers: copyMap(s.customers),
		orders:    copyMap(s.orders),
		payments:  copyMap(s.payments),
		items:     copyMap(s.items),
	}
}

func (s *Store) restore(t tables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = t.products
	s.customers = t.customers
	s.orders = t.orders
	s.payments = t.payments
	s.items = t.items
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type productRepo struct{ s *Store }

func (r productRepo) Get(ctx context.Context, id string) (*checkout.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) List(ctx context.Context) ([]checkout.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]checkout.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

func (r productRepo) Insert(ctx context.Context, p *checkout.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.s.products[cp.ID] = cp
	return nil
}

func (r productRepo) DecrementStock(ctx context.Context, id string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.products[id]
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) GetByEmail(ctx context.Context, email string) (*checkout.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Email == email {
			cc := c
			return &cc, nil
		}
	}
	return nil, nil
}

func (r customerRepo) Insert(ctx context.Context, c *checkout.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	cp.CreatedAt = time.Now()
	r.s.customers[cp.ID] = cp
	return nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Insert(ctx context.Context, o *checkout.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.s.orders[cp.ID] = cp
	return nil
}

func (r orderRepo) Get(ctx context.Context, id string) (*checkout.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o := r.s.orders[id]
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Insert(ctx context.Context, p *checkout.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	cp.CreatedAt = time.Now()
	r.s.payments[cp.ID] = cp
	return nil
}

func (r paymentRepo) GetByReference(ctx context.Context, reference string) (*checkout.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.ReferenceSale == reference {
			pp := p
			return &pp, nil
		}
	}
	return nil, nil
}

func (r paymentRepo) Update(ctx context.Context, p *checkout.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) InsertItem(ctx context.Context, it *checkout.PaymentItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[it.ID] = *it
	return nil
}
