package checkout

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "wompi-checkout/internal/kafka"
	"wompi-checkout/internal/wompi"
)

// Gateway is the slice of the Wompi client the saga needs.
type Gateway interface {
	CreateTransaction(ctx context.Context, req wompi.TransactionRequest) (*wompi.Transaction, error)
}

// Orchestrator runs the order-creation saga: stock validation, order,
// customer, payment and item rows, stock decrements and the remote charge,
// all under one unit of work. Any failure after validation rolls every
// local write back; the remote call itself is not compensated.
type Orchestrator struct {
	uow      UnitOfWork
	gateway  Gateway
	secret   string
	producer *kafkax.Producer
	log      *zap.Logger
	service  string
}

func NewOrchestrator(uow UnitOfWork, gateway Gateway, integritySecret string, producer *kafkax.Producer, log *zap.Logger, service string) (*Orchestrator, error) {
	if integritySecret == "" {
		return nil, errors.New("checkout: wompi integrity secret is not configured")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		uow:      uow,
		gateway:  gateway,
		secret:   integritySecret,
		producer: producer,
		log:      log,
		service:  service,
	}, nil
}

func (o *Orchestrator) CreateOrder(ctx context.Context, in CreateOrderInput) (*wompi.Transaction, error) {
	var (
		tx      *wompi.Transaction
		orderID string
	)

	err := o.uow.Execute(ctx, func(ctx context.Context, s Store) error {
		// 1. stock check, before anything is written
		if err := ValidateAvailability(ctx, s.Products(), in.Payment.Items); err != nil {
			return err
		}

		// 2. order row
		order := &Order{
			ID:      uuid.NewString(),
			Address: in.Address,
			City:    in.City,
			Phone:   in.Phone,
			Status:  in.Status,
		}
		if order.Status == "" {
			order.Status = StatusPending
		}
		if err := s.Orders().Insert(ctx, order); err != nil {
			return err
		}
		orderID = order.ID

		// 3. customer
		customerID, err := ResolveCustomer(ctx, s.Customers(), in.Email, in.FirstName)
		if err != nil {
			return err
		}

		// 4. payment row, reference generated exactly once
		now := time.Now()
		payment := &Payment{
			ID:            uuid.NewString(),
			AmountCents:   in.Payment.AmountCents,
			Currency:      in.Payment.Currency,
			PaymentStatus: StatusPending,
			DatePayment:   &now,
			ReferenceSale: "WOMPI-" + uuid.NewString(),
			OrderID:       order.ID,
			CustomerID:    customerID,
		}
		if payment.Currency == "" {
			payment.Currency = "COP"
		}
		if err := s.Payments().Insert(ctx, payment); err != nil {
			return err
		}

		// 5. items + decrements; availability was validated for the whole
		// set, so a concurrent order can still oversell here
		for _, it := range in.Payment.Items {
			item := &PaymentItem{
				ID:             uuid.NewString(),
				PaymentID:      payment.ID,
				ProductID:      it.ProductID,
				Quantity:       it.Quantity,
				UnitPriceCents: it.UnitPriceCents,
			}
			if err := s.Payments().InsertItem(ctx, item); err != nil {
				return err
			}
			if err := s.Products().DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		// 6. remote charge; local commit is contingent on network success
		installments, _ := strconv.Atoi(in.Quotas)
		signature := wompi.IntegrityHash(payment.ReferenceSale, payment.AmountCents, payment.Currency, o.secret, "")

		created, err := o.gateway.CreateTransaction(ctx, wompi.TransactionRequest{
			AcceptanceToken:    in.AcceptanceToken,
			AcceptPersonalAuth: in.PersonalDataAuthToken,
			Permalink:          wompi.PermalinkTerms,
			AmountInCents:      payment.AmountCents,
			Currency:           payment.Currency,
			Signature:          signature,
			CustomerEmail:      in.Email,
			Reference:          payment.ReferenceSale,
			PaymentMethod: wompi.PaymentMethod{
				Type:         PaymentMethodCard,
				Installments: installments,
				Token:        in.CardToken,
			},
		})
		if err != nil {
			return err
		}
		tx = created
		return nil
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		o.log.Error("create order saga failed", zap.Error(err))
		return nil, ErrCreateOrderFailed
	}

	o.publishCreated(orderID, in, tx)
	return tx, nil
}

func (o *Orchestrator) publishCreated(orderID string, in CreateOrderInput, tx *wompi.Transaction) {
	if o.producer == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      o.service,
		CorrelationID: tx.Reference,
		Payload: kafkax.MustMarshal(OrderCreatedPayload{
			OrderID:       orderID,
			Reference:     tx.Reference,
			TransactionID: tx.ID,
			AmountCents:   tx.AmountInCents,
			Currency:      tx.Currency,
			CustomerEmail: in.Email,
		}),
	}
	o.producer.Publish(PartitionKey(tx.Reference), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
