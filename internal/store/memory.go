package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"ordertrack/internal/model"
)

// MemoryStore keeps everything in process memory. Once closed, every call
// fails with ErrStoreUnavailable.
type MemoryStore struct {
	mu      sync.RWMutex
	clients map[string]model.Client
	orders  map[string]model.Order
	users   map[string]model.User // by login
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients: make(map[string]model.Client),
		orders:  make(map[string]model.Order),
		users:   make(map[string]model.User),
	}
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) check() error {
	if s.closed {
		return fmt.Errorf("memory store closed: %w", ErrStoreUnavailable)
	}
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("order %s: %w", o.ID, ErrAlreadyExists)
	}
	c, ok := s.clients[o.ClientID]
	if !ok {
		return fmt.Errorf("client %s: %w", o.ClientID, ErrNotFound)
	}
	o.ClientName = c.Name
	s.orders[o.ID] = *o
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return model.Order{}, err
	}
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return s.withClient(o), nil
}

func (s *MemoryStore) UpdateOrder(_ context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	prev, ok := s.orders[o.ID]
	if !ok {
		return fmt.Errorf("order %s: %w", o.ID, ErrNotFound)
	}
	if _, ok := s.clients[o.ClientID]; !ok {
		return fmt.Errorf("client %s: %w", o.ClientID, ErrNotFound)
	}
	o.RequestedAt = prev.RequestedAt
	s.orders[o.ID] = o
	return nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	delete(s.orders, id)
	return nil
}

func (s *MemoryStore) QueryOrders(_ context.Context, f OrderFilter, key SortKey, offset, limit int) ([]model.Order, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []model.Order
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ActiveOnly && !o.Status.Active() {
			continue
		}
		c := s.clients[o.ClientID]
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Phone), search) {
			continue
		}
		o.ClientName = c.Name
		matched = append(matched, o)
	}

	sortOrders(matched, ParseSort(string(key)))

	total := len(matched)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func sortOrders(orders []model.Order, key SortKey) {
	cmp := func(a, b model.Order) int {
		switch key.Field() {
		case "client_name":
			return compareNames(a.ClientName, b.ClientName)
		case "status":
			return strings.Compare(string(a.Status), string(b.Status))
		case "delivery_date":
			return a.DeliveryDate.Compare(b.DeliveryDate)
		case "request_timestamp":
			return a.RequestedAt.Compare(b.RequestedAt)
		default:
			return strings.Compare(a.ID, b.ID)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		c := cmp(orders[i], orders[j])
		if key.Desc() {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return orders[i].ID < orders[j].ID
	})
}

// compareNames matches LOWER(name) COLLATE "C" on the Postgres side.
func compareNames(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func (s *MemoryStore) StatusTotals(_ context.Context) ([]StatusTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	byStatus := make(map[model.Status]*StatusTotal)
	for _, o := range s.orders {
		t, ok := byStatus[o.Status]
		if !ok {
			t = &StatusTotal{Status: o.Status}
			byStatus[o.Status] = t
		}
		t.Count++
		t.SaleSum += o.SaleValue
		t.AmountSum += o.AmountPaid
	}

	totals := make([]StatusTotal, 0, len(byStatus))
	for _, st := range model.Statuses {
		if t, ok := byStatus[st]; ok {
			totals = append(totals, *t)
		}
	}
	return totals, nil
}

func (s *MemoryStore) withClient(o model.Order) model.Order {
	o.ClientName = s.clients[o.ClientID].Name
	return o
}

func (s *MemoryStore) CreateClient(_ context.Context, c *model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.clients[c.ID]; ok {
		return fmt.Errorf("client %s: %w", c.ID, ErrAlreadyExists)
	}
	s.clients[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetClient(_ context.Context, id string) (model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return model.Client{}, err
	}
	c, ok := s.clients[id]
	if !ok {
		return model.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *MemoryStore) UpdateClient(_ context.Context, c model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.clients[c.ID]; !ok {
		return fmt.Errorf("client %s: %w", c.ID, ErrNotFound)
	}
	s.clients[c.ID] = c
	return nil
}

func (s *MemoryStore) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.clients[id]; !ok {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	for oid, o := range s.orders {
		if o.ClientID == id {
			delete(s.orders, oid)
		}
	}
	delete(s.clients, id)
	return nil
}

func (s *MemoryStore) ListClients(_ context.Context, search string) ([]ClientStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	stats := make(map[string]*ClientStats)
	for _, c := range s.clients {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Phone), q) {
			continue
		}
		stats[c.ID] = &ClientStats{Client: c}
	}
	for _, o := range s.orders {
		cs, ok := stats[o.ClientID]
		if !ok {
			continue
		}
		cs.OrderCount++
		if o.Status.Active() {
			cs.ActiveOrderCount++
		}
	}

	out := make([]ClientStats, 0, len(stats))
	for _, cs := range stats {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := compareNames(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.users[u.Login]; ok {
		return fmt.Errorf("user %s: %w", u.Login, ErrAlreadyExists)
	}
	s.users[u.Login] = *u
	return nil
}

func (s *MemoryStore) GetUserByLogin(_ context.Context, login string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return model.User{}, err
	}
	u, ok := s.users[login]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", login, ErrNotFound)
	}
	return u, nil
}
