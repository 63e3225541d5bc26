package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

var fixedNow = time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addClient(t *testing.T, st store.Store, id, name, phone string) model.Client {
	t.Helper()
	c := model.Client{ID: id, Name: name, Phone: phone}
	require.NoError(t, st.CreateClient(context.Background(), &c))
	return c
}

func addOrder(t *testing.T, st store.Store, o model.Order) model.Order {
	t.Helper()
	if o.Status == "" {
		o.Status = model.StatusPending
	}
	if o.RequestedAt.IsZero() {
		o.RequestedAt = fixedNow
	}
	require.NoError(t, st.CreateOrder(context.Background(), &o))
	return o
}
