package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Load reads a .env file when one is present. Variables already set in the
// environment win.
func Load() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func PostgresDSN() string {
	return "host=" + GetEnv("DB_HOST", "localhost") +
		" port=" + GetEnv("DB_PORT", "5432") +
		" user=" + GetEnv("DB_USER", "postgres") +
		" password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + GetEnv("DB_NAME", "foodzone") +
		" sslmode=" + GetEnv("DB_SSL_MODE", "disable")
}

func MustInitPostgres() *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func RedisAddr() string {
	return GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379")
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     RedisAddr(),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{GetEnv("KAFKA_BROKER", "localhost:9092")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(GetEnv("KAFKA_BROKER", "localhost:9092")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}
