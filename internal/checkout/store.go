package checkout

import "context"

// Repositories return (nil, nil) for a missing row; errors are reserved for
// store failures.

type ProductRepo interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Insert(ctx context.Context, p *Product) error
	// DecrementStock applies an unconditional atomic decrement. Callers
	// validate availability beforehand; no row lock is taken in between.
	DecrementStock(ctx context.Context, id string, quantity int) error
}

type CustomerRepo interface {
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Insert(ctx context.Context, c *Customer) error
}

type OrderRepo interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type PaymentRepo interface {
	Insert(ctx context.Context, p *Payment) error
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	InsertItem(ctx context.Context, it *PaymentItem) error
}

// Store bundles the per-entity repositories over one database handle. Inside
// a UnitOfWork the handle is the open transaction.
type Store interface {
	Products() ProductRepo
	Customers() CustomerRepo
	Orders() OrderRepo
	Payments() PaymentRepo
}

// UnitOfWork runs fn inside one begin/commit/rollback boundary. A non-nil
// error from fn rolls everything back and is returned unchanged.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
