// Package events announces order mutations to the rest of the shop.
package events

import (
	"context"
	"log/slog"
	"time"

	"ordertrack/internal/model"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderUpdated       Type = "order.updated"
	OrderDeleted       Type = "order.deleted"
	OrderStatusChanged Type = "order.status_changed"
	OrderDuplicated    Type = "order.duplicated"
)

type Event struct {
	Type       Type         `json:"type"`
	OrderID    string       `json:"order_id"`
	Order      *model.Order `json:"order,omitempty"`
	From       model.Status `json:"from,omitempty"`
	To         model.Status `json:"to,omitempty"`
	SourceID   string       `json:"source_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.log.InfoContext(ctx, "order event",
		"type", e.Type,
		"order_id", e.OrderID,
		"from", e.From,
		"to", e.To,
		"source_id", e.SourceID,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
