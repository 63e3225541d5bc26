package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

// UrgentWindow is how many days ahead of today still count as urgent.
const UrgentWindow = 7

// Workload splits the active orders by how close their delivery is.
type Workload struct {
	Critical      []model.Order
	Urgent        []model.Order
	Normal        []model.Order
	PressureLevel int
	// PeakDay is the busiest urgent delivery date; nil with no urgent orders.
	PeakDay      *time.Time
	PeakDayCount int
}

func (w Workload) MarshalJSON() ([]byte, error) {
	out := struct {
		Critical      []model.Order `json:"critical"`
		Urgent        []model.Order `json:"urgent"`
		Normal        []model.Order `json:"normal"`
		CriticalCount int           `json:"critical_count"`
		UrgentCount   int           `json:"urgent_count"`
		NormalCount   int           `json:"normal_count"`
		PressureLevel int           `json:"pressure_level"`
		PeakDay       string        `json:"peak_day,omitempty"`
		PeakDayCount  int           `json:"peak_day_count,omitempty"`
	}{
		Critical:      nonNil(w.Critical),
		Urgent:        nonNil(w.Urgent),
		Normal:        nonNil(w.Normal),
		CriticalCount: len(w.Critical),
		UrgentCount:   len(w.Urgent),
		NormalCount:   len(w.Normal),
		PressureLevel: w.PressureLevel,
		PeakDayCount:  w.PeakDayCount,
	}
	if w.PeakDay != nil {
		out.PeakDay = w.PeakDay.Format(model.DateLayout)
	}
	return json.Marshal(out)
}

func nonNil(orders []model.Order) []model.Order {
	if orders == nil {
		return []model.Order{}
	}
	return orders
}

// Classify buckets active orders against today's civil date:
// critical is overdue, urgent is due within UrgentWindow days, the rest is normal.
// Orders that are DONE are ignored.
func Classify(orders []model.Order, today time.Time) Workload {
	start := model.DateOf(today)
	limit := start.AddDate(0, 0, UrgentWindow)

	var w Workload
	active := 0
	for _, o := range orders {
		if !o.Status.Active() {
			continue
		}
		active++
		due := model.DateOf(o.DeliveryDate)
		switch {
		case due.Before(start):
			w.Critical = append(w.Critical, o)
		case !due.After(limit):
			w.Urgent = append(w.Urgent, o)
		default:
			w.Normal = append(w.Normal, o)
		}
	}

	for _, bucket := range [][]model.Order{w.Critical, w.Urgent, w.Normal} {
		sortByDelivery(bucket)
	}

	w.PressureLevel = percent(len(w.Critical)+len(w.Urgent), active)
	w.PeakDay, w.PeakDayCount = peakDay(w.Urgent)
	return w
}

func sortByDelivery(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if c := a.DeliveryDate.Compare(b.DeliveryDate); c != 0 {
			return c < 0
		}
		if c := a.RequestedAt.Compare(b.RequestedAt); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// peakDay picks the most frequent delivery date, the earliest one on a tie.
func peakDay(orders []model.Order) (*time.Time, int) {
	counts := make(map[time.Time]int)
	for _, o := range orders {
		counts[model.DateOf(o.DeliveryDate)]++
	}

	var best *time.Time
	bestCount := 0
	for d, n := range counts {
		if n > bestCount || (n == bestCount && d.Before(*best)) {
			day := d
			best, bestCount = &day, n
		}
	}
	return best, bestCount
}

type WorkloadService struct {
	orders store.OrderStore
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
}

func NewWorkloadService(orders store.OrderStore, loc *time.Location, log *slog.Logger) *WorkloadService {
	if loc == nil {
		loc = time.Local
	}
	return &WorkloadService{orders: orders, loc: loc, now: time.Now, log: log}
}

// Weekly classifies every active order against today in the shop's time zone.
func (s *WorkloadService) Weekly(ctx context.Context) (Workload, error) {
	orders, _, err := s.orders.QueryOrders(ctx, store.OrderFilter{ActiveOnly: true}, store.SortDeliveryDate, 0, 0)
	if err != nil {
		return Workload{}, fmt.Errorf("active orders: %w", err)
	}
	w := Classify(orders, s.now().In(s.loc))
	s.log.DebugContext(ctx, "workload classified",
		"critical", len(w.Critical), "urgent", len(w.Urgent), "normal", len(w.Normal))
	return w, nil
}
