package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "foodzone/api-svc/internal/api/http"
	"foodzone/api-svc/internal/service"
	"foodzone/api-svc/internal/storage"
	"foodzone/config"
)

func main() {
	config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()
	cache := storage.NewRedisCache(rdb, config.GetDuration("ROLE_CACHE_TTL", 5*time.Minute))

	writer := config.NewKafkaWriter(config.GetEnv("ORDERS_TOPIC", "orders"))
	defer writer.Close()

	var verifier service.IDTokenVerifier
	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		v, err := service.NewFirebaseVerifier(context.Background(), projectID, os.Getenv("FIREBASE_CREDENTIALS_JSON"))
		if err != nil {
			log.Fatal("Failed to init Firebase:", err)
		}
		verifier = v
	} else {
		log.Println("[api-svc] FIREBASE_PROJECT_ID not set, issuing tokens without ID token verification")
	}

	secret := os.Getenv("ACCESS_TOKEN")
	if secret == "" {
		log.Fatal("ACCESS_TOKEN must be set")
	}

	hub := httpapi.NewOrderHub()
	qr := service.DefaultQRGenerator{BaseURL: config.GetEnv("PUBLIC_URL", "http://localhost:5173")}

	handler := httpapi.NewHandler(
		service.NewUserService(repo, cache),
		service.NewRestaurantService(repo),
		service.NewMenuService(repo, cache),
		service.NewOrderService(repo, qr, storage.NewKafkaPublisher(writer), hub),
		service.NewTokenService(secret, config.GetDuration("TOKEN_TTL", 24*time.Hour), verifier),
		hub,
	)

	srv := httpapi.NewServer(":"+config.GetEnv("PORT", "5000"), httpapi.NewRouter(handler))
	go httpapi.StartServer(srv)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("[api-svc] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[api-svc] shutdown: %v", err)
	}
}
