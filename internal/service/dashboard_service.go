package service

import (
	"time"

	"go-resale-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats covers the rolling 30-day window with period-over-period
// percentage change against the 30 days before it.
type DashboardStats struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalSales     int64           `json:"total_sales"`
	TotalProducts  int64           `json:"total_products"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	RevenueChange  float64         `json:"revenue_change"`
	SalesChange    float64         `json:"sales_change"`
	ProductsChange float64         `json:"products_change"`
	ProfitChange   float64         `json:"profit_change"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetSalesOverTime() ([]repository.SalesPoint, error)
	GetRecentSales() ([]repository.RecentSale, error)
}

type dashboardService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

func NewDashboardService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) DashboardService {
	return &dashboardService{saleRepo: saleRepo, productRepo: productRepo}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	now := time.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	sixtyDaysAgo := now.AddDate(0, 0, -60)

	current, err := s.saleRepo.PeriodSummary(thirtyDaysAgo, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.saleRepo.PeriodSummary(sixtyDaysAgo, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.productRepo.CountUnsold()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalRevenue:  current.Revenue,
		TotalSales:    current.Sales,
		TotalProducts: totalProducts,
		TotalProfit:   current.Profit,
		RevenueChange: PercentChange(current.Revenue, previous.Revenue),
		SalesChange:   PercentChange(decimal.NewFromInt(current.Sales), decimal.NewFromInt(previous.Sales)),
		// Product count has no historical snapshot to compare against.
		ProductsChange: 0,
		ProfitChange:   PercentChange(current.Profit, previous.Profit),
	}, nil
}

// PercentChange returns the period-over-period change in percent. A previous
// period of zero yields 100 when the current period has activity, else 0.
func PercentChange(current, previous decimal.Decimal) float64 {
	if previous.GreaterThan(decimal.Zero) {
		change, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
		return change
	}
	if current.GreaterThan(decimal.Zero) {
		return 100
	}
	return 0
}

func (s *dashboardService) GetSalesOverTime() ([]repository.SalesPoint, error) {
	return s.saleRepo.SalesOverTime(time.Now().AddDate(0, 0, -30))
}

func (s *dashboardService) GetRecentSales() ([]repository.RecentSale, error) {
	return s.saleRepo.RecentSales(10)
}
