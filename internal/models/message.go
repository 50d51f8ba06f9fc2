package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedMessage is published to the orders topic exchange when a
// checkout succeeds.
type OrderPlacedMessage struct {
	OrderID      string          `json:"order_id"`
	OrderNumber  int             `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	City         string          `json:"city"`
	Items        []CartLine      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	DiscountCode string          `json:"discount_code,omitempty"`
	PlacedAt     time.Time       `json:"placed_at"`
}

// StatusUpdateMessage is published to the notifications fanout exchange
// on every order status transition.
type StatusUpdateMessage struct {
	OrderNumber      int         `json:"order_number"`
	OldStatus        OrderStatus `json:"old_status"`
	NewStatus        OrderStatus `json:"new_status"`
	ChangedBy        string      `json:"changed_by"`
	EstimatedMinutes *int        `json:"estimated_minutes,omitempty"`
	Timestamp        time.Time   `json:"timestamp"`
}

// NewOrderPlacedMessage builds the broker payload from a placed order.
func NewOrderPlacedMessage(o *Order) *OrderPlacedMessage {
	return &OrderPlacedMessage{
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.Customer.Name,
		City:         o.Customer.City,
		Items:        o.Items,
		Total:        o.Total,
		DiscountCode: o.DiscountCode,
		PlacedAt:     o.CreatedAt,
	}
}

// NewStatusUpdateMessage builds the notification payload for a status
// change.
func NewStatusUpdateMessage(o *Order, old OrderStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderNumber:      o.OrderNumber,
		OldStatus:        old,
		NewStatus:        o.Status,
		ChangedBy:        changedBy,
		EstimatedMinutes: o.EstimatedMinutes,
		Timestamp:        time.Now().UTC(),
	}
}

// OrderRoutingKey generates the topic routing key for order messages,
// e.g. "orders.placed.oslo".
func OrderRoutingKey(event, city string) string {
	return fmt.Sprintf("orders.%s.%s", event, NormalizeRoutingSegment(city))
}

// NormalizeRoutingSegment lowercases a value and replaces spaces so it
// is safe inside an AMQP routing key.
func NormalizeRoutingSegment(v string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "_")
}
