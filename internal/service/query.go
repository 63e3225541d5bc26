package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

// ListParams are the raw list-view query parameters.
type ListParams struct {
	Status string
	Search string
	Sort   string
	Page   string
}

// Counts are taken over the whole order book, regardless of any filter.
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

type OrderPage struct {
	Orders      []model.Order `json:"orders"`
	Page        int           `json:"page"`
	TotalPages  int           `json:"total_pages"`
	TotalItems  int           `json:"total_items"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`

	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
	Sort   string `json:"sort"`

	Counts Counts `json:"counts"`
}

type QueryService struct {
	orders   store.OrderStore
	pageSize int
}

func NewQueryService(orders store.OrderStore, pageSize int) *QueryService {
	if pageSize < 1 {
		pageSize = 1
	}
	return &QueryService{orders: orders, pageSize: pageSize}
}

// List returns one page of orders. An unknown status matches no order, an
// unknown sort falls back to newest first, and an out of range page is
// clamped into the available pages.
func (s *QueryService) List(ctx context.Context, p ListParams) (OrderPage, error) {
	var f store.OrderFilter
	f.Status = model.Status(strings.TrimSpace(p.Status))
	f.Search = strings.TrimSpace(p.Search)
	key := store.ParseSort(p.Sort)

	page, last := parsePage(p.Page)
	orders, total, err := s.orders.QueryOrders(ctx, f, key, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return OrderPage{}, fmt.Errorf("query orders: %w", err)
	}

	pages := totalPages(total, s.pageSize)
	if page > pages || (last && page != pages) {
		page = pages
		orders, total, err = s.orders.QueryOrders(ctx, f, key, (page-1)*s.pageSize, s.pageSize)
		if err != nil {
			return OrderPage{}, fmt.Errorf("query last page: %w", err)
		}
		pages = totalPages(total, s.pageSize)
	}

	counts, err := s.counts(ctx)
	if err != nil {
		return OrderPage{}, err
	}

	if orders == nil {
		orders = []model.Order{}
	}
	return OrderPage{
		Orders:      orders,
		Page:        page,
		TotalPages:  pages,
		TotalItems:  total,
		HasNext:     page < pages,
		HasPrevious: page > 1,
		Status:      string(f.Status),
		Search:      f.Search,
		Sort:        string(key),
		Counts:      counts,
	}, nil
}

func (s *QueryService) counts(ctx context.Context) (Counts, error) {
	totals, err := s.orders.StatusTotals(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("status totals: %w", err)
	}
	var c Counts
	for _, t := range totals {
		switch t.Status {
		case model.StatusPending:
			c.Pending = t.Count
		case model.StatusInProgress:
			c.InProgress = t.Count
		case model.StatusDone:
			c.Done = t.Count
		}
		c.Total += t.Count
	}
	return c, nil
}

// parsePage reads the requested page number. Anything that is not a number
// is page 1; a number below 1 asks for the last page.
func parsePage(raw string) (page int, last bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1, false
	}
	if n < 1 {
		return 1, true
	}
	return n, false
}

// totalPages is never below one, even for an empty result.
func totalPages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
