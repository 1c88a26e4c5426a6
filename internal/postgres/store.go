package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"wompi-checkout/internal/checkout"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same repos
// serve autocommit reads and unit-of-work transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct{ q querier }

func NewStore(pool *pgxpool.Pool) *Store { return &Store{q: pool} }

func (s *Store) Products() checkout.ProductRepo   { return productRepo{s.q} }
func (s *Store) Customers() checkout.CustomerRepo { return customerRepo{s.q} }
func (s *Store) Orders() checkout.OrderRepo       { return orderRepo{s.q} }
func (s *Store) Payments() checkout.PaymentRepo   { return paymentRepo{s.q} }

// UnitOfWork runs the callback inside one transaction; any error rolls the
// whole thing back, including stock decrements already executed.
type UnitOfWork struct{ Pool *pgxpool.Pool }

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, s checkout.Store) error) error {
	tx, err := u.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &Store{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type productRepo struct{ q querier }

func (r productRepo) Get(ctx context.Context, id string) (*checkout.Product, error) {
	var p checkout.Product
	err := r.q.QueryRow(ctx, `
		SELECT id, name, COALESCE(description,''), price_cents, stock, COALESCE(image,''), created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r productRepo) List(ctx context.Context) ([]checkout.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, COALESCE(description,''), price_cents, stock, COALESCE(image,''), created_at, updated_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []checkout.Product
	for rows.Next() {
		var p checkout.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r productRepo) Insert(ctx context.Context, p *checkout.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products(id, name, description, price_cents, stock, image)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Stock, p.Image)
	return err
}

func (r productRepo) DecrementStock(ctx context.Context, id string, quantity int) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now() WHERE id=$1`, id, quantity)
	return err
}

type customerRepo struct{ q querier }

func (r customerRepo) GetByEmail(ctx context.Context, email string) (*checkout.Customer, error) {
	var c checkout.Customer
	err := r.q.QueryRow(ctx, `
		SELECT id, first_name, email, created_at FROM customers WHERE email=$1`, email).
		Scan(&c.ID, &c.FirstName, &c.Email, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r customerRepo) Insert(ctx context.Context, c *checkout.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers(id, first_name, email) VALUES ($1,$2,$3)`,
		c.ID, c.FirstName, c.Email)
	return err
}

type orderRepo struct{ q querier }

func (r orderRepo) Insert(ctx context.Context, o *checkout.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders(id, address, city, phone, status)
		VALUES ($1,$2,$3,$4,$5)`,
		o.ID, o.Address, o.City, o.Phone, o.Status)
	return err
}

func (r orderRepo) Get(ctx context.Context, id string) (*checkout.Order, error) {
	var o checkout.Order
	err := r.q.QueryRow(ctx, `
		SELECT id, address, COALESCE(city,''), COALESCE(phone,''), status, created_at, updated_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Address, &o.City, &o.Phone, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	return err
}

type paymentRepo struct{ q querier }

func (r paymentRepo) Insert(ctx context.Context, p *checkout.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments(id, amount_cents, currency, payment_status, date_payment, reference_sale, order_id, customer_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.AmountCents, p.Currency, p.PaymentStatus, p.DatePayment, p.ReferenceSale, p.OrderID, p.CustomerID)
	return err
}

func (r paymentRepo) GetByReference(ctx context.Context, reference string) (*checkout.Payment, error) {
	var p checkout.Payment
	err := r.q.QueryRow(ctx, `
		SELECT id, amount_cents, currency, payment_status, date_payment,
		       COALESCE(gateway_transaction_id,''), transaction_date,
		       COALESCE(payment_method,''), COALESCE(payment_method_name,''),
		       operation_date, reference_sale, order_id, COALESCE(customer_id::text,''), created_at
		FROM payments WHERE reference_sale=$1`, reference).
		Scan(&p.ID, &p.AmountCents, &p.Currency, &p.PaymentStatus, &p.DatePayment,
			&p.GatewayTransactionID, &p.TransactionDate,
			&p.PaymentMethod, &p.PaymentMethodName,
			&p.OperationDate, &p.ReferenceSale, &p.OrderID, &p.CustomerID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r paymentRepo) Update(ctx context.Context, p *checkout.Payment) error {
	_, err := r.q.Exec(ctx, `
		UPDATE payments SET
			payment_status=$2, date_payment=$3, operation_date=$4,
			payment_method=$5, payment_method_name=$6, gateway_transaction_id=$7
		WHERE id=$1`,
		p.ID, p.PaymentStatus, p.DatePayment, p.OperationDate,
		p.PaymentMethod, p.PaymentMethodName, p.GatewayTransactionID)
	return err
}

func (r paymentRepo) InsertItem(ctx context.Context, it *checkout.PaymentItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_items(id, payment_id, product_id, quantity, unit_price_cents)
		VALUES ($1,$2,$3,$4,$5)`,
		it.ID, it.PaymentID, it.ProductID, it.Quantity, it.UnitPriceCents)
	return err
}
