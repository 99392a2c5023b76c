package repository

import (
	"time"

	"go-resale-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a FOR UPDATE clause so the selected rows stay locked
// for the remainder of the transaction.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByBarcode(code string) (*model.Product, error)
	Search(query string) ([]model.Product, error)
	BarcodeTaken(code string, excluding uuid.UUID) (bool, error)
	SetBarcode(id uuid.UUID, code string) error
	UpdateSellingPrice(id uuid.UUID, price decimal.Decimal) error
	MarkSold(id uuid.UUID, at time.Time) error
	AddStock(id uuid.UUID, quantity int) (*model.Product, error)
	CountUnsold() (int64, error)
	Delete(id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Preload("Category").
		Preload("Lot.Supplier").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Lot").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByBarcode(code string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "barcode = ?", code).Error
	return &product, err
}

// Search matches name, barcode, or category name, case-insensitively.
func (r *productRepo) Search(query string) ([]model.Product, error) {
	var products []model.Product
	pattern := "%" + query + "%"
	err := r.db.
		Preload("Category").
		Joins("LEFT JOIN categories ON categories.id = products.category_id AND categories.deleted_at IS NULL").
		Where("products.name ILIKE ? OR products.barcode ILIKE ? OR categories.name ILIKE ?", pattern, pattern, pattern).
		Order("products.created_at DESC").
		Find(&products).Error
	return products, err
}

// BarcodeTaken reports whether another product already holds the candidate
// barcode. This is the allocator's existence lookup.
func (r *productRepo) BarcodeTaken(code string, excluding uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("barcode = ? AND id <> ?", code, excluding).
		Count(&count).Error
	return count > 0, err
}

func (r *productRepo) SetBarcode(id uuid.UUID, code string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("barcode", code).Error
}

func (r *productRepo) UpdateSellingPrice(id uuid.UUID, price decimal.Decimal) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("selling_price", price).Error
}

func (r *productRepo) MarkSold(id uuid.UUID, at time.Time) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_sold":        true,
			"sold_at":        at,
			"stock_quantity": 0,
		}).Error
}

// AddStock increments the stock quantity inside a transaction with the row
// locked, and returns the updated product. A product previously drained to
// zero and marked sold comes back on sale: sold implies zero stock, so any
// positive stock clears the sold state.
func (r *productRepo) AddStock(id uuid.UUID, quantity int) (*model.Product, error) {
	var product model.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		newStock := product.StockQuantity + quantity
		updates := map[string]interface{}{"stock_quantity": newStock}
		if newStock > 0 && product.IsSold {
			updates["is_sold"] = false
			updates["sold_at"] = nil
		}
		if err := tx.Model(&model.Product{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return err
		}
		product.StockQuantity = newStock
		if newStock > 0 {
			product.IsSold = false
			product.SoldAt = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) CountUnsold() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("is_sold = ?", false).Count(&count).Error
	return count, err
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}
