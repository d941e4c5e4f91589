// Package events carries order lifecycle notifications to interested sinks
// after the change has been committed.
package events

import (
	"context"
	"errors"
	"time"

	"cravecart-api/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
)

type OrderEvent struct {
	ID             string             `json:"id"`
	Type           Type               `json:"type"`
	OrderID        uint               `json:"orderId"`
	UserID         uint               `json:"userId"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

// NewOrderEvent snapshots the order into an event of the given type
func NewOrderEvent(t Type, order *models.Order, previous models.OrderStatus) OrderEvent {
	return OrderEvent{
		ID:             uuid.NewString(),
		Type:           t,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		OccurredAt:     time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// Multi delivers every event to each publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev OrderEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops events
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }
