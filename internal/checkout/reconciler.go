package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "wompi-checkout/internal/kafka"
	"wompi-checkout/internal/redisx"
)

// Reconciler applies an externally reported gateway verdict to the payment
// located by its business reference and to the linked order, inside one
// transaction. The status string is propagated verbatim; payment and order
// stay in lock-step by convention, not by a transition table.
type Reconciler struct {
	uow      UnitOfWork
	cache    *redis.Client
	producer *kafkax.Producer
	log      *zap.Logger
	service  string
}

func NewReconciler(uow UnitOfWork, cache *redis.Client, producer *kafkax.Producer, log *zap.Logger, service string) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{uow: uow, cache: cache, producer: producer, log: log, service: service}
}

func (r *Reconciler) UpdateOrder(ctx context.Context, reference string, upd StatusUpdate) (string, error) {
	var orderID string

	err := r.uow.Execute(ctx, func(ctx context.Context, s Store) error {
		payment, err := s.Payments().GetByReference(ctx, reference)
		if err != nil {
			return err
		}
		if payment == nil {
			return fmt.Errorf("no payment with reference %s", reference)
		}

		finalized, err := time.Parse(time.RFC3339, upd.FinalizedAt)
		if err != nil {
			return fmt.Errorf("parse finalizedAt: %w", err)
		}

		payment.PaymentStatus = upd.Status
		payment.DatePayment = &finalized
		payment.OperationDate = &finalized
		payment.PaymentMethod = PaymentMethodCard
		payment.PaymentMethodName = upd.MethodName
		payment.GatewayTransactionID = upd.GatewayTransactionID
		if err := s.Payments().Update(ctx, payment); err != nil {
			return err
		}

		order, err := s.Orders().Get(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("no order %s for payment %s", payment.OrderID, payment.ID)
		}
		if err := s.Orders().UpdateStatus(ctx, order.ID, upd.Status); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		r.log.Error("update order failed", zap.String("reference", reference), zap.Error(err))
		return "", ErrUpdateOrderFailed
	}

	r.refreshCache(ctx, reference, upd.Status)
	r.publishUpdated(orderID, reference, upd)

	return fmt.Sprintf("El estado del pago con referencia %s ha sido actualizado exitosamente a %s", reference, upd.Status), nil
}

func (r *Reconciler) refreshCache(ctx context.Context, reference, status string) {
	if r.cache == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, reference)
	body := fmt.Sprintf(`{"reference":%q,"status":%q,"statusMessage":%q}`, reference, status, StatusMessage(status))
	if err := r.cache.Set(ctx, key, body, redisx.TTLStatusCache).Err(); err != nil {
		r.log.Warn("status cache refresh failed", zap.String("reference", reference), zap.Error(err))
	}
}

func (r *Reconciler) publishUpdated(orderID, reference string, upd StatusUpdate) {
	if r.producer == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderUpdated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      r.service,
		CorrelationID: reference,
		Payload: kafkax.MustMarshal(OrderUpdatedPayload{
			OrderID:       orderID,
			Reference:     reference,
			Status:        upd.Status,
			TransactionID: upd.GatewayTransactionID,
		}),
	}
	r.producer.Publish(PartitionKey(reference), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderUpdated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
