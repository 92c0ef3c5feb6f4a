package domain

import "time"

const EventOrderPlaced = "order_placed"

type OrderItem struct {
	MenuID   int `json:"menu_id"`
	Quantity int `json:"quantity"`
}

// OrderEvent is what api-svc publishes on the orders topic.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   int         `json:"order_id"`
	Items     []OrderItem `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
}
