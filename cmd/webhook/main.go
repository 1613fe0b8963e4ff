package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/importacademy/hotmart-bridge/internal/config"
	"github.com/importacademy/hotmart-bridge/internal/eventlog"
	"github.com/importacademy/hotmart-bridge/internal/httpx"
	"github.com/importacademy/hotmart-bridge/internal/identity"
	kafkax "github.com/importacademy/hotmart-bridge/internal/kafka"
	"github.com/importacademy/hotmart-bridge/internal/notify"
	"github.com/importacademy/hotmart-bridge/internal/orders"
	"github.com/importacademy/hotmart-bridge/internal/postgres"
	"github.com/importacademy/hotmart-bridge/internal/redisx"
	"github.com/importacademy/hotmart-bridge/internal/settings"
	"github.com/importacademy/hotmart-bridge/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.WebhookToken == "" {
		log.Fatal("HOTMART_HOTTOK must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for outbound notifications
	prod := kafkax.NewProducer(cfg.KafkaBrokers, notify.TopicNotifications, 1024)
	prod.Start(ctx)
	outbox := &notify.Outbox{Producer: prod, Service: cfg.ServiceName}

	// Audit log, gated by the admin-mutable settings store
	store := &settings.Store{DB: db, Redis: rdb}
	auditLog := &eventlog.Logger{
		Settings:    store,
		Sink:        &eventlog.FileSink{},
		Alerter:     outbox,
		DefaultPath: cfg.LogFilePath,
	}

	// Pipeline
	resolver := &identity.Resolver{
		Store:    &identity.Repo{DB: db},
		Notifier: outbox,
		Log:      auditLog,
	}
	reconciler := &orders.Reconciler{
		Store:    &orders.Repo{DB: db},
		Notifier: outbox,
		Log:      auditLog,
	}
	dispatcher := &webhook.Dispatcher{
		Resolver:   resolver,
		Reconciler: reconciler,
		Guard:      &redisx.TxLock{RDB: rdb},
		Log:        auditLog,
	}

	router := httpx.NewRouter()
	wh := &httpx.WebhookHandler{
		Auth:       &webhook.Authenticator{Token: cfg.WebhookToken, Log: auditLog},
		Validator:  &webhook.Validator{Log: auditLog},
		Dispatcher: dispatcher,
		Log:        auditLog,
	}
	wh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	cancel()
	prod.WaitClosed()
}
