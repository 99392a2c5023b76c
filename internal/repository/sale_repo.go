package repository

import (
	"errors"
	"fmt"
	"time"

	"go-resale-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a cart line asks for more units than
// a product has on hand. The wrapping error names the product.
var ErrInsufficientStock = errors.New("insufficient stock remaining")

// PeriodSummary aggregates sales for a time window.
type PeriodSummary struct {
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int64           `json:"sales"`
	Profit  decimal.Decimal `json:"profit"`
}

// SalesPoint is one day of the sales-over-time chart.
type SalesPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int64           `json:"sales"`
}

// RecentSale is a dashboard row: one sale with its summed item count.
type RecentSale struct {
	ID            uuid.UUID       `json:"id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	ItemCount     int64           `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

type SaleRepository interface {
	CreateWithStockDeduction(sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	PeriodSummary(start, end time.Time) (*PeriodSummary, error)
	SalesOverTime(start time.Time) ([]SalesPoint, error)
	RecentSales(limit int) ([]RecentSale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// CreateWithStockDeduction persists the sale and its items and decrements
// each product's stock in a single transaction, so partial sales can never
// be stored. Product rows are locked while their stock is checked; a product
// whose stock reaches zero is marked sold.
func (r *saleRepo) CreateWithStockDeduction(sale *model.Sale) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		for _, item := range sale.Items {
			var product model.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return fmt.Errorf("product %s not found", item.ProductID)
			}

			if product.StockQuantity < item.Quantity {
				return fmt.Errorf("%w for '%s'", ErrInsufficientStock, product.Name)
			}

			newStock := product.StockQuantity - item.Quantity
			updates := map[string]interface{}{"stock_quantity": newStock}
			if newStock == 0 {
				updates["is_sold"] = true
				updates["sold_at"] = now
			}
			if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Items are inserted through the association in the same tx.
		return tx.Create(sale).Error
	})
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Items.Product").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items.Product").First(&sale, "id = ?", id).Error
	return &sale, err
}

// PeriodSummary computes revenue, sale count and profit for [start, end).
// Profit joins sale items against the product's cost price snapshot.
func (r *saleRepo) PeriodSummary(start, end time.Time) (*PeriodSummary, error) {
	var summary PeriodSummary

	err := r.db.Raw(`
		SELECT
			COALESCE(SUM(total_amount), 0) AS revenue,
			COUNT(id) AS sales
		FROM sales
		WHERE deleted_at IS NULL
		  AND created_at >= ? AND created_at < ?
	`, start, end).Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
		SELECT COALESCE(SUM((si.unit_price - p.cost_price) * si.quantity), 0) AS profit
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.deleted_at IS NULL
		  AND s.created_at >= ? AND s.created_at < ?
	`, start, end).Scan(&summary.Profit).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *saleRepo) SalesOverTime(start time.Time) ([]SalesPoint, error) {
	var points []SalesPoint

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total_amount), 0) as revenue,
			COUNT(id) as sales
		`).
		Where("created_at >= ?", start).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point SalesPoint
		if err := rows.Scan(&point.Date, &point.Revenue, &point.Sales); err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return points, nil
}

func (r *saleRepo) RecentSales(limit int) ([]RecentSale, error) {
	var sales []RecentSale
	err := r.db.Raw(`
		SELECT
			s.id,
			s.total_amount,
			s.payment_method,
			COALESCE(SUM(si.quantity), 0) AS item_count,
			s.created_at
		FROM sales s
		LEFT JOIN sale_items si ON si.sale_id = s.id
		WHERE s.deleted_at IS NULL
		GROUP BY s.id, s.total_amount, s.payment_method, s.created_at
		ORDER BY s.created_at DESC
		LIMIT ?
	`, limit).Scan(&sales).Error
	return sales, err
}
