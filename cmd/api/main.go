package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wompi-checkout/internal/checkout"
	"wompi-checkout/internal/config"
	"wompi-checkout/internal/httpx"
	kafkax "wompi-checkout/internal/kafka"
	"wompi-checkout/internal/postgres"
	"wompi-checkout/internal/redisx"
	"wompi-checkout/internal/wompi"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("service", cfg.ServiceName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicOrderCreated, 1024, log)
	pCreated.Start(context.Background())
	pUpdated := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicOrderUpdated, 1024, log)
	pUpdated.Start(context.Background())

	// Gateway + saga components
	gateway := wompi.NewClient(cfg.WompiBaseURL, cfg.WompiPublicKey)
	store := postgres.NewStore(db)
	uow := &postgres.UnitOfWork{Pool: db}

	orchestrator, err := checkout.NewOrchestrator(uow, gateway, cfg.WompiSecretKey, pCreated, log, cfg.ServiceName)
	if err != nil {
		log.Fatal("orchestrator init", zap.Error(err))
	}
	reconciler := checkout.NewReconciler(uow, rdb, pUpdated, log, cfg.ServiceName)

	// Router & handlers
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Orchestrator: orchestrator,
		Reconciler:   reconciler,
		Store:        store,
		Redis:        rdb,
		Log:          log,
	}
	oh.Register(router)
	ph := &httpx.PaymentHandler{Gateway: gateway, Log: log}
	ph.Register(router)
	prh := &httpx.ProductsHandler{Store: store, Log: log}
	prh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// close inboxes -> flush & close writers, then wait for the drain
	pCreated.Close()
	pUpdated.Close()
	pCreated.WaitClosed()
	pUpdated.WaitClosed()
}
