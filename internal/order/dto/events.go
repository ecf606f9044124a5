package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated         = "OrderCreated"
	EventOrderStatusChanged   = "OrderStatusChanged"
	EventOrderStatusRequested = "OrderStatusRequested"
)

type Event[T any] struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Payload   T         `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderPayload struct {
	ID       string             `json:"id"`
	Status   string             `json:"status"`
	Currency string             `json:"currency"`
	Total    decimal.Decimal    `json:"total"`
	Items    []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id"`
	Quantity  int64   `json:"quantity"`
}

type StatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type StatusRequestedPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
