package event

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const OrderCreatedEventName EventType = "OrderCreated"

type Event interface {
	Type() EventType
	GetID() string
}

type BaseEvent struct {
	EventID     string    `json:"eventId"`
	AggregateID string    `json:"aggregateId"`
	CreatedAt   time.Time `json:"createdAt"`
	EventType   EventType `json:"eventType"`
}

func (e *BaseEvent) GetID() string {
	return e.EventID
}

type OrderCreatedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     *int64 `json:"price"` // kopecks at order time
}

// OrderCreatedEvent notifies the back-office that a storefront order was
// placed and awaits payment.
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       string             `json:"order_id"`
	UserID        string             `json:"user_id"`
	Amount        decimal.Decimal    `json:"amount"` // rubles, items plus delivery
	PaymentMethod string             `json:"payment_method"`
	Items         []OrderCreatedItem `json:"items"`
}

func (e *OrderCreatedEvent) Type() EventType {
	return OrderCreatedEventName
}
