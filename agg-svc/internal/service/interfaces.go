package service

import (
	"context"

	"foodzone/agg-svc/internal/domain"
	"foodzone/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	IncrementPopularity(ctx context.Context, menuID, quantity int) error
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessOrder(ctx context.Context, event domain.OrderEvent) int
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
