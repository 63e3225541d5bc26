package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

type ClientInput struct {
	Name  string
	Phone string
	Email string
}

// ClientList is the client directory plus a few shop-wide figures.
type ClientList struct {
	Clients       []store.ClientStats `json:"clients"`
	TotalClients  int                 `json:"total_clients"`
	ActiveClients int                 `json:"active_clients"`
	TopClient     *store.ClientStats  `json:"top_client,omitempty"`
}

type ClientService struct {
	clients store.ClientStore
	log     *slog.Logger
}

func NewClientService(clients store.ClientStore, log *slog.Logger) *ClientService {
	return &ClientService{clients: clients, log: log}
}

// List filters the directory by search; the figures always cover every client.
func (s *ClientService) List(ctx context.Context, search string) (ClientList, error) {
	all, err := s.clients.ListClients(ctx, "")
	if err != nil {
		return ClientList{}, fmt.Errorf("list clients: %w", err)
	}

	withContactLinks(all)
	list := ClientList{Clients: all, TotalClients: len(all)}
	for i, c := range all {
		if c.ActiveOrderCount > 0 {
			list.ActiveClients++
		}
		if c.OrderCount > 0 && (list.TopClient == nil || better(c, *list.TopClient)) {
			list.TopClient = &all[i]
		}
	}

	if strings.TrimSpace(search) != "" {
		filtered, err := s.clients.ListClients(ctx, search)
		if err != nil {
			return ClientList{}, fmt.Errorf("search clients: %w", err)
		}
		withContactLinks(filtered)
		list.Clients = filtered
	}
	if list.Clients == nil {
		list.Clients = []store.ClientStats{}
	}
	return list, nil
}

func withContactLinks(rows []store.ClientStats) {
	for i := range rows {
		rows[i].WhatsAppLink = rows[i].Client.WhatsAppLink()
	}
}

// better orders clients by order count, then name, then id.
func better(a, b store.ClientStats) bool {
	if a.OrderCount != b.OrderCount {
		return a.OrderCount > b.OrderCount
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (model.Client, error) {
	c := model.Client{ID: uuid.NewString()}
	in.apply(&c)
	if err := s.clients.CreateClient(ctx, &c); err != nil {
		return model.Client{}, fmt.Errorf("insert client: %w", err)
	}
	s.log.InfoContext(ctx, "client created", "client_id", c.ID)
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (model.Client, error) {
	c, err := s.clients.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Client{}, ErrClientNotFound
		}
		return model.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in ClientInput) (model.Client, error) {
	c := model.Client{ID: id}
	in.apply(&c)
	if err := s.clients.UpdateClient(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Client{}, ErrClientNotFound
		}
		return model.Client{}, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

// Delete removes the client together with all of its orders.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.clients.DeleteClient(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("delete client: %w", err)
	}
	s.log.InfoContext(ctx, "client deleted", "client_id", id)
	return nil
}

func (in ClientInput) apply(c *model.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
}
