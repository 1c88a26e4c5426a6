package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"wompi-checkout/internal/checkout"
	"wompi-checkout/internal/redisx"
	"wompi-checkout/internal/wompi"
)

// Verifier is the slice of the gateway client the worker needs.
type Verifier interface {
	VerifyTransaction(ctx context.Context, transactionID string) (*wompi.Transaction, error)
}

// VerdictSync consumes order-created events, asks the gateway for the
// transaction's current status and, once a final verdict exists, applies it
// through the same reconciliation path the PATCH endpoint uses. Transactions
// still pending are skipped; the webhook remains authoritative for those.
type VerdictSync struct {
	Gateway     Verifier
	Reconciler  *checkout.Reconciler
	Redis       *redis.Client
	Log         *zap.Logger
	ServiceName string
}

func (s *VerdictSync) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env checkout.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != checkout.EventOrderCreated {
		return nil
	}

	// dedup by event id so redeliveries don't hit the gateway again
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	var p checkout.OrderCreatedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return err
	}

	tx, err := s.Gateway.VerifyTransaction(ctx, p.TransactionID)
	if err != nil {
		return err
	}
	if tx.Status == checkout.StatusPending {
		s.Log.Debug("transaction still pending", zap.String("reference", p.Reference))
		return nil
	}

	methodName := tx.PaymentMethod.Extra.Brand
	if methodName == "" {
		methodName = tx.PaymentMethodType
	}

	_, err = s.Reconciler.UpdateOrder(ctx, p.Reference, checkout.StatusUpdate{
		Status:               tx.Status,
		GatewayTransactionID: tx.ID,
		MethodName:           methodName,
		FinalizedAt:          tx.FinalizedAt,
	})
	if err != nil {
		return err
	}

	s.Log.Info("verdict applied",
		zap.String("reference", p.Reference),
		zap.String("status", tx.Status),
	)
	return nil
}
