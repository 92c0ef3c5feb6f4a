package service

import (
	"context"
	"encoding/json"
	"log"

	"foodzone/agg-svc/internal/domain"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

// Start reads until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("[agg-svc] starting order consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("[agg-svc] consumer stopped")
				return
			}
			log.Printf("[agg-svc] read message: %v", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("[agg-svc] unmarshal message at offset %d: %v", message.Offset, err)
			continue
		}

		if event.Type == domain.EventOrderPlaced {
			c.ProcessOrder(ctx, event)
		}
	}
}

// ProcessOrder bumps popularity for every item of the order and returns how
// many items were applied. A failing item does not stop the rest.
func (c *Consumer) ProcessOrder(ctx context.Context, event domain.OrderEvent) int {
	if event.Type != domain.EventOrderPlaced {
		return 0
	}

	applied := 0
	for _, item := range event.Items {
		if item.MenuID <= 0 || item.Quantity <= 0 {
			continue
		}
		if err := c.Store.IncrementPopularity(ctx, item.MenuID, item.Quantity); err != nil {
			log.Printf("[agg-svc] order %d: menu %d: %v", event.OrderID, item.MenuID, err)
			continue
		}
		applied++
	}

	log.Printf("[agg-svc] processed order %d: %d/%d items", event.OrderID, applied, len(event.Items))
	return applied
}
