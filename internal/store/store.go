// Package store persists clients, orders and staff users. The Postgres
// adapter backs production; the in-memory adapter backs tests and local runs.
package store

import (
	"context"
	"errors"

	"ordertrack/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrStoreUnavailable wraps failures to reach the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// OrderFilter narrows QueryOrders. Zero value matches every order.
type OrderFilter struct {
	Status model.Status
	// Search matches client name OR client phone, case-insensitively.
	Search     string
	ActiveOnly bool
}

// StatusTotal aggregates all orders sharing a status.
type StatusTotal struct {
	Status    model.Status
	Count     int
	SaleSum   int64
	AmountSum int64
}

// ClientStats is a client together with its order counts.
type ClientStats struct {
	model.Client
	OrderCount       int `json:"order_count"`
	ActiveOrderCount int `json:"active_order_count"`
	// WhatsAppLink is derived from the phone; stores leave it empty.
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id string) (model.Order, error)
	UpdateOrder(ctx context.Context, o model.Order) error
	DeleteOrder(ctx context.Context, id string) error
	// QueryOrders returns one page and the number of orders matching f.
	// A non-positive limit returns every match.
	QueryOrders(ctx context.Context, f OrderFilter, sort SortKey, offset, limit int) ([]model.Order, int, error)
	StatusTotals(ctx context.Context) ([]StatusTotal, error)
}

type ClientStore interface {
	CreateClient(ctx context.Context, c *model.Client) error
	GetClient(ctx context.Context, id string) (model.Client, error)
	UpdateClient(ctx context.Context, c model.Client) error
	// DeleteClient removes the client and all of its orders.
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context, search string) ([]ClientStats, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByLogin(ctx context.Context, login string) (model.User, error)
}

type Store interface {
	OrderStore
	ClientStore
	UserStore
	Close() error
}
