package service

import (
	"context"
	"fmt"
)

type Dashboard struct {
	Financials Financials `json:"financials"`
	Recent     OrderPage  `json:"recent_orders"`
}

// DashboardService joins the financial overview with a short page of recent orders.
type DashboardService struct {
	finance *FinanceService
	recent  *QueryService
}

func NewDashboardService(finance *FinanceService, recent *QueryService) *DashboardService {
	return &DashboardService{finance: finance, recent: recent}
}

func (s *DashboardService) Get(ctx context.Context, p ListParams) (Dashboard, error) {
	fin, err := s.finance.Summary(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("financials: %w", err)
	}
	recent, err := s.recent.List(ctx, p)
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent orders: %w", err)
	}
	return Dashboard{Financials: fin, Recent: recent}, nil
}
