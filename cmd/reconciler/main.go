package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wompi-checkout/internal/checkout"
	"wompi-checkout/internal/config"
	kafkax "wompi-checkout/internal/kafka"
	"wompi-checkout/internal/postgres"
	"wompi-checkout/internal/redisx"
	"wompi-checkout/internal/wompi"
	"wompi-checkout/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	serviceName := cfg.ServiceName + "-reconciler"
	log = log.With(zap.String("service", serviceName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pUpdated := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicOrderUpdated, 1024, log)
	pUpdated.Start(context.Background())

	uow := &postgres.UnitOfWork{Pool: db}
	reconciler := checkout.NewReconciler(uow, rdb, pUpdated, log, serviceName)
	gateway := wompi.NewClient(cfg.WompiBaseURL, cfg.WompiPublicKey)

	sync := &worker.VerdictSync{
		Gateway:     gateway,
		Reconciler:  reconciler,
		Redis:       rdb,
		Log:         log,
		ServiceName: serviceName,
	}

	group := getenv("RECONCILER_GROUP", "checkout-reconciler")
	workers := mustAtoi(os.Getenv("RECONCILER_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, checkout.TopicOrderCreated, workers, log)

	go func() {
		log.Info("verdict consumer started",
			zap.String("group", group),
			zap.Int("workers", workers),
		)
		if err := cons.Start(ctx, sync.HandleOrderCreated); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer")
	cancel()

	pUpdated.Close()
	pUpdated.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
