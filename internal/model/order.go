package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of delivery dates.
const DateLayout = "2006-01-02"

type Order struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	ClientName   string    `json:"client_name,omitempty"`
	Summary      string    `json:"summary"`
	Details      string    `json:"details"`
	Status       Status    `json:"status"`
	SaleValue    int64     `json:"sale_value"`
	AmountPaid   int64     `json:"amount_paid"`
	RequestedAt  time.Time `json:"requested_at"`
	DeliveryDate time.Time `json:"delivery_date"`
	ImageRef     string    `json:"image_ref,omitempty"`
}

// PendingBalance is what the client still owes on the order.
func (o Order) PendingBalance() int64 {
	return o.SaleValue - o.AmountPaid
}

// SetStatus commits a status change. Completing an order settles it in full;
// leaving DONE keeps whatever was paid.
func (o *Order) SetStatus(s Status) {
	if s == StatusDone {
		o.AmountPaid = o.SaleValue
	}
	o.Status = s
}

// Copy returns a fresh PENDING, unpaid order with the same request details.
// The caller assigns identity and request timestamp.
func (o Order) Copy() Order {
	return Order{
		ClientID:     o.ClientID,
		ClientName:   o.ClientName,
		Summary:      o.Summary,
		Details:      o.Details,
		Status:       StatusPending,
		SaleValue:    o.SaleValue,
		AmountPaid:   0,
		DeliveryDate: o.DeliveryDate,
		ImageRef:     o.ImageRef,
	}
}

func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		RequestedAt    string `json:"requested_at"`
		DeliveryDate   string `json:"delivery_date"`
		PendingBalance int64  `json:"pending_balance"`
		*Alias
	}{
		RequestedAt:    o.RequestedAt.Format(time.RFC3339),
		DeliveryDate:   o.DeliveryDate.Format(DateLayout),
		PendingBalance: o.PendingBalance(),
		Alias:          (*Alias)(&o),
	})
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type Alias Order
	aux := &struct {
		RequestedAt  string `json:"requested_at"`
		DeliveryDate string `json:"delivery_date"`
		*Alias
	}{Alias: (*Alias)(o)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.RequestedAt != "" {
		t, err := time.Parse(time.RFC3339, aux.RequestedAt)
		if err != nil {
			return fmt.Errorf("requested_at: %w", err)
		}
		o.RequestedAt = t
	}
	if aux.DeliveryDate != "" {
		d, err := ParseDate(aux.DeliveryDate)
		if err != nil {
			return fmt.Errorf("delivery_date: %w", err)
		}
		o.DeliveryDate = d
	}
	return nil
}

// DateOf truncates t to its civil date in t's location and returns it as
// midnight UTC, the representation used for delivery dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD delivery date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
