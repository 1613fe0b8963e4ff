package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/importacademy/hotmart-bridge/internal/config"
	kafkax "github.com/importacademy/hotmart-bridge/internal/kafka"
	"github.com/importacademy/hotmart-bridge/internal/notify"
	"github.com/importacademy/hotmart-bridge/internal/postgres"
	"github.com/importacademy/hotmart-bridge/internal/redisx"
	"github.com/importacademy/hotmart-bridge/internal/settings"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB, for the admin-mutable alert recipient setting
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	deliverer := &notify.Deliverer{
		Sender:     &notify.SMTPSender{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom},
		Settings:   &settings.Store{DB: db, Redis: rdb},
		AdminEmail: cfg.AdminEmail,
		URLs: notify.SiteURLs{
			Login:         cfg.SiteLoginURL,
			ResetPassword: cfg.SiteResetPasswordURL,
			Instructions:  cfg.SiteInstructionsURL,
		},
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, notify.TopicNotifications, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, notify.TopicNotifications, workers)
		if err := cons.Start(ctx, deliverer.Handle); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
