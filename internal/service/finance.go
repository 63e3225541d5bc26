package service

import (
	"context"
	"fmt"

	"ordertrack/internal/model"
	"ordertrack/internal/store"
)

// Financials is the money and progress overview of the whole order book.
type Financials struct {
	RecognizedRevenue int64 `json:"recognized_revenue"`
	Receivables       int64 `json:"receivables"`

	PendingCount    int `json:"pending_count"`
	InProgressCount int `json:"in_progress_count"`
	DoneCount       int `json:"done_count"`
	TotalCount      int `json:"total_count"`

	PendingPercent    int `json:"pending_percent"`
	InProgressPercent int `json:"in_progress_percent"`
	DonePercent       int `json:"done_percent"`
}

type FinanceService struct {
	orders store.OrderStore
}

func NewFinanceService(orders store.OrderStore) *FinanceService {
	return &FinanceService{orders: orders}
}

func (s *FinanceService) Summary(ctx context.Context) (Financials, error) {
	totals, err := s.orders.StatusTotals(ctx)
	if err != nil {
		return Financials{}, fmt.Errorf("status totals: %w", err)
	}
	return Summarize(totals), nil
}

// Summarize folds per-status aggregates into Financials. Revenue counts DONE
// orders only; receivables are the unpaid part of every active order.
func Summarize(totals []store.StatusTotal) Financials {
	var f Financials
	for _, t := range totals {
		switch t.Status {
		case model.StatusPending:
			f.PendingCount += t.Count
			f.Receivables += t.SaleSum - t.AmountSum
		case model.StatusInProgress:
			f.InProgressCount += t.Count
			f.Receivables += t.SaleSum - t.AmountSum
		case model.StatusDone:
			f.DoneCount += t.Count
			f.RecognizedRevenue += t.SaleSum
		}
	}
	f.TotalCount = f.PendingCount + f.InProgressCount + f.DoneCount
	f.PendingPercent = percent(f.PendingCount, f.TotalCount)
	f.InProgressPercent = percent(f.InProgressCount, f.TotalCount)
	f.DonePercent = percent(f.DoneCount, f.TotalCount)
	return f
}

// percent is 100*part/total rounded half up; 0 for an empty total.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
