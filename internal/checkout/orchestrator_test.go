package checkout_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wompi-checkout/internal/checkout"
	"wompi-checkout/internal/memory"
	"wompi-checkout/internal/wompi"
)

type fakeGateway struct {
	lastReq wompi.TransactionRequest
	calls   int
	err     error
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, req wompi.TransactionRequest) (*wompi.Transaction, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return &wompi.Transaction{
		ID:            "txn-123",
		Reference:     req.Reference,
		AmountInCents: req.AmountInCents,
		Currency:      req.Currency,
		Status:        checkout.StatusPending,
	}, nil
}

const testSecret = "test-secret"

func newOrchestrator(t *testing.T, gw checkout.Gateway) (*checkout.Orchestrator, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	o, err := checkout.NewOrchestrator(&memory.UnitOfWork{S: st}, gw, testSecret, nil, zap.NewNop(), "test")
	require.NoError(t, err)
	return o, st
}

func orderInput(items ...checkout.ItemInput) checkout.CreateOrderInput {
	return checkout.CreateOrderInput{
		Address:   "Calle 123",
		City:      "Bogotá",
		Phone:     "3001234567",
		Email:     "jane@example.com",
		FirstName: "Jane",
		Payment: checkout.PaymentInput{
			AmountCents: 250000,
			Currency:    "COP",
			Items:       items,
		},
		CardToken:             "tok_card",
		AcceptanceToken:       "tok_accept",
		PersonalDataAuthToken: "tok_personal",
		Quotas:                "2",
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	gw := &fakeGateway{}
	o, st := newOrchestrator(t, gw)
	st.Seed(checkout.Product{ID: "p1", Name: "Laptop ASUS", PriceCents: 125000, Stock: 10})

	tx, err := o.CreateOrder(context.Background(), orderInput(
		checkout.ItemInput{ProductID: "p1", Quantity: 2, UnitPriceCents: 125000},
	))
	require.NoError(t, err)

	// business reference is WOMPI-<uuid>
	require.True(t, strings.HasPrefix(tx.Reference, "WOMPI-"))
	_, err = uuid.Parse(strings.TrimPrefix(tx.Reference, "WOMPI-"))
	assert.NoError(t, err)

	// stock decremented, exactly one item row
	assert.Equal(t, 8, st.ProductStock("p1"))
	orders, customers, payments, items := st.Counts()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 1, customers)
	assert.Equal(t, 1, payments)
	assert.Equal(t, 1, items)
	require.Len(t, st.PaymentItems(), 1)
	assert.Equal(t, 2, st.PaymentItems()[0].Quantity)

	// payment row starts PENDING and links the new order
	payment, err := st.Payments().GetByReference(context.Background(), tx.Reference)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, checkout.StatusPending, payment.PaymentStatus)
	assert.Equal(t, int64(250000), payment.AmountCents)
	order, err := st.Orders().Get(context.Background(), payment.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, checkout.StatusPending, order.Status)

	// gateway request assembled from the saga state
	assert.Equal(t, int64(250000), gw.lastReq.AmountInCents)
	assert.Equal(t, "COP", gw.lastReq.Currency)
	assert.Equal(t, "jane@example.com", gw.lastReq.CustomerEmail)
	assert.Equal(t, tx.Reference, gw.lastReq.Reference)
	assert.Equal(t, wompi.PermalinkTerms, gw.lastReq.Permalink)
	assert.Equal(t, "tok_accept", gw.lastReq.AcceptanceToken)
	assert.Equal(t, "tok_personal", gw.lastReq.AcceptPersonalAuth)
	assert.Equal(t, checkout.PaymentMethodCard, gw.lastReq.PaymentMethod.Type)
	assert.Equal(t, 2, gw.lastReq.PaymentMethod.Installments)
	assert.Equal(t, "tok_card", gw.lastReq.PaymentMethod.Token)
	assert.Equal(t,
		wompi.IntegrityHash(tx.Reference, 250000, "COP", testSecret, ""),
		gw.lastReq.Signature,
	)
}

func TestCreateOrderReferencesAreUnique(t *testing.T) {
	gw := &fakeGateway{}
	o, st := newOrchestrator(t, gw)
	st.Seed(checkout.Product{ID: "p1", Name: "Laptop", Stock: 10})

	first, err := o.CreateOrder(context.Background(), orderInput(checkout.ItemInput{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)
	second, err := o.CreateOrder(context.Background(), orderInput(checkout.ItemInput{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	assert.NotEqual(t, first.Reference, second.Reference)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	gw := &fakeGateway{}
	o, st := newOrchestrator(t, gw)
	st.Seed(checkout.Product{ID: "p1", Name: "Laptop ASUS", Stock: 1})

	_, err := o.CreateOrder(context.Background(), orderInput(
		checkout.ItemInput{ProductID: "p1", Quantity: 2},
	))
	require.Error(t, err)
	assert.Equal(t, "Producto Laptop ASUS no tiene suficiente stock", err.Error())

	// nothing written, gateway never called
	orders, customers, payments, items := st.Counts()
	assert.Zero(t, orders+customers+payments+items)
	assert.Equal(t, 1, st.ProductStock("p1"))
	assert.Zero(t, gw.calls)
}

func TestCreateOrderUnknownProductAbortsBeforeDecrements(t *testing.T) {
	gw := &fakeGateway{}
	o, st := newOrchestrator(t, gw)
	st.Seed(checkout.Product{ID: "p2", Name: "Mouse", Stock: 5})

	_, err := o.CreateOrder(context.Background(), orderInput(
		checkout.ItemInput{ProductID: "missing", Quantity: 1},
		checkout.ItemInput{ProductID: "p2", Quantity: 1},
	))
	require.Error(t, err)
	assert.Equal(t, "Producto con id missing no encontrado", err.Error())

	orders, customers, payments, items := st.Counts()
	assert.Zero(t, orders+customers+payments+items)
	assert.Equal(t, 5, st.ProductStock("p2"))
	assert.Zero(t, gw.calls)
}

func TestCreateOrderGatewayFailureRollsBack(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	o, st := newOrchestrator(t, gw)
	st.Seed(checkout.Product{ID: "p1", Name: "Laptop", Stock: 10})

	_, err := o.CreateOrder(context.Background(), orderInput(
		checkout.ItemInput{ProductID: "p1", Quantity: 2},
	))
	require.Error(t, err)

	// mid-saga failures are generalized, the cause is not leaked
	assert.ErrorIs(t, err, checkout.ErrCreateOrderFailed)
	assert.NotContains(t, err.Error(), "connection refused")

	orders, customers, payments, items := st.Counts()
	assert.Zero(t, orders+customers+payments+items)
	assert.Equal(t, 10, st.ProductStock("p1"))
}

func TestCreateOrderReusesExistingCustomer(t *testing.T) {
	gw := &fakeGateway{}
	o, st := newOrchestrator(t, gw)
	st.Seed(checkout.Product{ID: "p1", Name: "Laptop", Stock: 10})

	existing := &checkout.Customer{ID: "c1", FirstName: "Juana", Email: "jane@example.com"}
	require.NoError(t, st.Customers().Insert(context.Background(), existing))

	_, err := o.CreateOrder(context.Background(), orderInput(checkout.ItemInput{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	_, customers, _, _ := st.Counts()
	assert.Equal(t, 1, customers)

	c, err := st.Customers().GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Juana", c.FirstName, "existing first name must not be overwritten")
}

func TestCreateOrderDefaultsCurrency(t *testing.T) {
	gw := &fakeGateway{}
	o, st := newOrchestrator(t, gw)
	st.Seed(checkout.Product{ID: "p1", Name: "Laptop", Stock: 10})

	in := orderInput(checkout.ItemInput{ProductID: "p1", Quantity: 1})
	in.Payment.Currency = ""
	_, err := o.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "COP", gw.lastReq.Currency)
}

func TestNewOrchestratorRequiresSecret(t *testing.T) {
	st := memory.NewStore()
	_, err := checkout.NewOrchestrator(&memory.UnitOfWork{S: st}, &fakeGateway{}, "", nil, zap.NewNop(), "test")
	require.Error(t, err)
}
