package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"foodzone/agg-svc/internal/service"
	"foodzone/agg-svc/internal/storage"
	"foodzone/config"
)

func main() {
	config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.GetEnv("ORDERS_TOPIC", "orders"), "agg-svc")
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service.NewConsumer(reader, storage.NewStore(db, rdb)).Start(ctx)
	log.Println("[agg-svc] shut down")
}
