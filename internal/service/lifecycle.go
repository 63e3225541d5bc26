package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ordertrack/internal/events"
	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

// OrderInput carries the editable fields of an order.
type OrderInput struct {
	ClientID     string
	Summary      string
	Details      string
	SaleValue    int64
	AmountPaid   int64
	DeliveryDate time.Time
	ImageRef     string
	// Status applies on Create only; empty means PENDING.
	Status model.Status
}

type OrderService struct {
	store  store.Store
	events events.Publisher
	log    *slog.Logger
	now    func() time.Time
}

func NewOrderService(st store.Store, pub events.Publisher, log *slog.Logger) *OrderService {
	return &OrderService{store: st, events: pub, log: log, now: time.Now}
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (model.Order, error) {
	if err := s.checkClient(ctx, in.ClientID); err != nil {
		return model.Order{}, err
	}

	o := model.Order{
		ID:          uuid.NewString(),
		Status:      model.StatusPending,
		RequestedAt: s.now(),
	}
	in.apply(&o)
	if in.Status != "" {
		o.SetStatus(in.Status)
	}

	if err := s.store.CreateOrder(ctx, &o); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Order{}, ErrClientNotFound
		}
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.OrderCreated, OrderID: o.ID, Order: &o, To: o.Status})
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (model.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Order{}, ErrOrderNotFound
		}
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Update replaces the editable fields. Status and request timestamp stay as they are.
func (s *OrderService) Update(ctx context.Context, id string, in OrderInput) (model.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if err := s.checkClient(ctx, in.ClientID); err != nil {
		return model.Order{}, err
	}

	in.apply(&o)
	if o.Status == model.StatusDone {
		o.AmountPaid = o.SaleValue
	}

	if err := s.store.UpdateOrder(ctx, o); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Order{}, ErrOrderNotFound
		}
		return model.Order{}, fmt.Errorf("update order: %w", err)
	}

	o, err = s.Get(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	s.publish(ctx, events.Event{Type: events.OrderUpdated, OrderID: o.ID, Order: &o})
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	s.publish(ctx, events.Event{Type: events.OrderDeleted, OrderID: id})
	return nil
}

// Transition moves an order to the state named by label. An unknown label
// changes nothing and reports applied=false.
func (s *OrderService) Transition(ctx context.Context, id, label string) (model.Order, bool, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return model.Order{}, false, err
	}

	next, ok := model.NextStatus(o.Status, label)
	if !ok {
		s.log.InfoContext(ctx, "status change ignored", "order_id", id, "label", label)
		return o, false, nil
	}

	from := o.Status
	o.SetStatus(next)
	if err := s.store.UpdateOrder(ctx, o); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Order{}, false, ErrOrderNotFound
		}
		return model.Order{}, false, fmt.Errorf("update status: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.OrderStatusChanged, OrderID: id, From: from, To: next})
	return o, true, nil
}

// Duplicate opens a new PENDING, unpaid order with the same request details.
func (s *OrderService) Duplicate(ctx context.Context, id string) (model.Order, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	o := src.Copy()
	o.ID = uuid.NewString()
	o.RequestedAt = s.now()

	if err := s.store.CreateOrder(ctx, &o); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Order{}, ErrClientNotFound
		}
		return model.Order{}, fmt.Errorf("insert duplicate: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.OrderDuplicated, OrderID: o.ID, SourceID: src.ID, Order: &o})
	return o, nil
}

func (s *OrderService) checkClient(ctx context.Context, id string) error {
	if _, err := s.store.GetClient(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("get client: %w", err)
	}
	return nil
}

// publish never fails the caller; the write it announces is already committed.
func (s *OrderService) publish(ctx context.Context, e events.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now()
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WarnContext(ctx, "publish order event", "type", e.Type, "order_id", e.OrderID, "error", err)
	}
}

func (in OrderInput) apply(o *model.Order) {
	o.ClientID = in.ClientID
	o.Summary = in.Summary
	o.Details = in.Details
	o.SaleValue = in.SaleValue
	o.AmountPaid = in.AmountPaid
	o.DeliveryDate = model.DateOf(in.DeliveryDate)
	o.ImageRef = in.ImageRef
}
