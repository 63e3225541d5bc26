package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

func TestClientService_List(t *testing.T) {
	st := store.NewMemoryStore()
	addClient(t, st, "c1", "Bruno", "111")
	addClient(t, st, "c2", "Ana", "222")
	addClient(t, st, "c3", "Carla", "333")
	addOrder(t, st, model.Order{ID: "o1", ClientID: "c1"})
	addOrder(t, st, model.Order{ID: "o2", ClientID: "c1", Status: model.StatusDone})
	addOrder(t, st, model.Order{ID: "o3", ClientID: "c2", Status: model.StatusDone})
	addOrder(t, st, model.Order{ID: "o4", ClientID: "c2", Status: model.StatusDone})

	svc := NewClientService(st, quietLog())
	list, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, list.TotalClients)
	assert.Equal(t, 1, list.ActiveClients)
	require.NotNil(t, list.TopClient)
	assert.Equal(t, "c2", list.TopClient.ID) // tie on 2 orders, Ana sorts first
	assert.Equal(t, "Ana", list.Clients[0].Name)
	assert.Equal(t, "https://wa.me/222", list.Clients[0].WhatsAppLink)
	assert.Equal(t, "https://wa.me/222", list.TopClient.WhatsAppLink)

	list, err = svc.List(context.Background(), "carla")
	require.NoError(t, err)
	require.Len(t, list.Clients, 1)
	assert.Equal(t, "c3", list.Clients[0].ID)
	assert.Equal(t, "https://wa.me/333", list.Clients[0].WhatsAppLink)
	assert.Equal(t, 3, list.TotalClients)
	assert.Equal(t, "c2", list.TopClient.ID)
}

func TestClientService_ListWithoutOrders(t *testing.T) {
	st := store.NewMemoryStore()
	addClient(t, st, "c1", "Ana", "1")

	list, err := NewClientService(st, quietLog()).List(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, list.TopClient)
	assert.Equal(t, 0, list.ActiveClients)
}

func TestClientService_CRUD(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewClientService(st, quietLog())
	ctx := context.Background()

	c, err := svc.Create(ctx, ClientInput{Name: "  Ana Rojas ", Phone: "+56 9 1111-2222"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Rojas", c.Name)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	updated, err := svc.Update(ctx, c.ID, ClientInput{Name: "Ana María Rojas", Phone: "2222", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", updated.Email)

	_, err = svc.Update(ctx, "missing", ClientInput{Name: "x", Phone: "y"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	addOrder(t, st, model.Order{ID: "o1", ClientID: c.ID})
	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = st.GetOrder(ctx, "o1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrClientNotFound)
}
