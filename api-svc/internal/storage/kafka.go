package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"foodzone/api-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: payload,
	})
}
