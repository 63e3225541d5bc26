package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordertrack/internal/model"
)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T) *MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := NewMemoryStore()

	clients := []model.Client{
		{ID: "c1", Name: "Ana Rojas", Phone: "+56 9 1111-2222"},
		{ID: "c2", Name: "Bruno Díaz", Phone: "+56 9 3333-4444"},
		{ID: "c3", Name: "Carla Soto", Phone: "+56 2 5555-0000"},
	}
	for i := range clients {
		require.NoError(t, s.CreateClient(ctx, &clients[i]))
	}

	orders := []model.Order{
		{ID: "o1", ClientID: "c1", Summary: "Cake", Status: model.StatusPending, SaleValue: 100, AmountPaid: 10, RequestedAt: day(1).Add(time.Hour), DeliveryDate: day(20)},
		{ID: "o2", ClientID: "c2", Summary: "Cookies", Status: model.StatusInProgress, SaleValue: 200, AmountPaid: 50, RequestedAt: day(2), DeliveryDate: day(10)},
		{ID: "o3", ClientID: "c1", Summary: "Pie", Status: model.StatusDone, SaleValue: 300, AmountPaid: 300, RequestedAt: day(3), DeliveryDate: day(5)},
		{ID: "o4", ClientID: "c3", Summary: "Tart", Status: model.StatusPending, SaleValue: 400, AmountPaid: 0, RequestedAt: day(4), DeliveryDate: day(15)},
	}
	for i := range orders {
		require.NoError(t, s.CreateOrder(ctx, &orders[i]))
	}
	return s
}

func ids(orders []model.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestMemoryStore_GetOrder(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	o, err := s.GetOrder(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, "Bruno Díaz", o.ClientName)

	_, err = s.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CreateOrderUnknownClient(t *testing.T) {
	s := NewMemoryStore()
	err := s.CreateOrder(context.Background(), &model.Order{ID: "x", ClientID: "nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateKeepsRequestTimestamp(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	o, err := s.GetOrder(ctx, "o1")
	require.NoError(t, err)
	original := o.RequestedAt

	o.Summary = "Birthday cake"
	o.RequestedAt = time.Now()
	require.NoError(t, s.UpdateOrder(ctx, o))

	got, err := s.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Birthday cake", got.Summary)
	assert.Equal(t, original, got.RequestedAt)

	assert.ErrorIs(t, s.UpdateOrder(ctx, model.Order{ID: "missing", ClientID: "c1"}), ErrNotFound)
}

func TestMemoryStore_DeleteOrder(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteOrder(ctx, "o1"))
	_, err := s.GetOrder(ctx, "o1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteOrder(ctx, "o1"), ErrNotFound)
}

func TestMemoryStore_QueryFilters(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter OrderFilter
		want   []string
	}{
		{"no filter", OrderFilter{}, []string{"o4", "o3", "o2", "o1"}},
		{"status", OrderFilter{Status: model.StatusPending}, []string{"o4", "o1"}},
		{"search by name is case insensitive", OrderFilter{Search: "ana"}, []string{"o3", "o1"}},
		{"search by phone", OrderFilter{Search: "3333"}, []string{"o2"}},
		{"search matches name OR phone", OrderFilter{Search: "+56 9"}, []string{"o3", "o2", "o1"}},
		{"status and search", OrderFilter{Status: model.StatusDone, Search: "rojas"}, []string{"o3"}},
		{"active only", OrderFilter{ActiveOnly: true}, []string{"o4", "o2", "o1"}},
		{"no match", OrderFilter{Search: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.QueryOrders(ctx, tt.filter, DefaultSort, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), total)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMemoryStore_QuerySort(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortClientName, []string{"o1", "o3", "o2", "o4"}},
		{SortClientNameDesc, []string{"o4", "o2", "o1", "o3"}},
		{SortStatus, []string{"o3", "o2", "o1", "o4"}},
		{SortStatusDesc, []string{"o1", "o4", "o2", "o3"}},
		{SortDeliveryDate, []string{"o3", "o2", "o4", "o1"}},
		{SortDeliveryDateDesc, []string{"o1", "o4", "o2", "o3"}},
		{SortRequestTimestamp, []string{"o1", "o2", "o3", "o4"}},
		{SortRequestTimestampDesc, []string{"o4", "o3", "o2", "o1"}},
		{SortID, []string{"o1", "o2", "o3", "o4"}},
		{SortIDDesc, []string{"o4", "o3", "o2", "o1"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got, _, err := s.QueryOrders(ctx, OrderFilter{}, tt.key, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMemoryStore_UnknownSortFallsBackToDefault(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	want, _, err := s.QueryOrders(ctx, OrderFilter{}, DefaultSort, 0, 0)
	require.NoError(t, err)
	got, _, err := s.QueryOrders(ctx, OrderFilter{}, SortKey("hacked_field"), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, ids(want), ids(got))
}

func TestMemoryStore_QueryPagination(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	page, total, err := s.QueryOrders(ctx, OrderFilter{}, SortID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"o2", "o3"}, ids(page))

	page, total, err = s.QueryOrders(ctx, OrderFilter{}, SortID, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"o4"}, ids(page))

	page, _, err = s.QueryOrders(ctx, OrderFilter{}, SortID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryStore_StatusTotals(t *testing.T) {
	s := seed(t)

	totals, err := s.StatusTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []StatusTotal{
		{Status: model.StatusPending, Count: 2, SaleSum: 500, AmountSum: 10},
		{Status: model.StatusInProgress, Count: 1, SaleSum: 200, AmountSum: 50},
		{Status: model.StatusDone, Count: 1, SaleSum: 300, AmountSum: 300},
	}, totals)

	empty, err := NewMemoryStore().StatusTotals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_DeleteClientCascades(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteClient(ctx, "c1"))

	_, err := s.GetClient(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range []string{"o1", "o3"} {
		_, err := s.GetOrder(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	_, err = s.GetOrder(ctx, "o2")
	assert.NoError(t, err)
}

func TestMemoryStore_ListClients(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	all, err := s.ListClients(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ana Rojas", all[0].Name)
	assert.Equal(t, 2, all[0].OrderCount)
	assert.Equal(t, 1, all[0].ActiveOrderCount)

	byPhone, err := s.ListClients(ctx, "5555")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "c3", byPhone[0].ID)
}

func TestMemoryStore_Users(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u := &model.User{ID: "u1", Login: "maria", PasswordHash: []byte("hash")}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.ErrorIs(t, s.CreateUser(ctx, &model.User{ID: "u2", Login: "maria"}), ErrAlreadyExists)

	got, err := s.GetUserByLogin(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = s.GetUserByLogin(ctx, "pedro")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ClosedIsUnavailable(t *testing.T) {
	s := seed(t)
	require.NoError(t, s.Close())

	_, err := s.GetOrder(context.Background(), "o1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, _, err = s.QueryOrders(context.Background(), OrderFilter{}, DefaultSort, 0, 10)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestMemoryStore_ClientNameOrderIgnoresCase(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, c := range []model.Client{
		{ID: "c1", Name: "beatriz", Phone: "1"},
		{ID: "c2", Name: "Ana", Phone: "2"},
		{ID: "c3", Name: "Carlos", Phone: "3"},
		{ID: "c4", Name: "ana", Phone: "4"},
	} {
		require.NoError(t, s.CreateClient(ctx, &c))
		require.NoError(t, s.CreateOrder(ctx, &model.Order{ID: "o" + c.ID, ClientID: c.ID, Status: model.StatusPending}))
	}

	orders, _, err := s.QueryOrders(ctx, OrderFilter{}, SortClientName, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"oc2", "oc4", "oc1", "oc3"}, ids(orders))

	clients, err := s.ListClients(ctx, "")
	require.NoError(t, err)
	got := make([]string, 0, len(clients))
	for _, c := range clients {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"c2", "c4", "c1", "c3"}, got)
}
