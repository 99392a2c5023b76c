package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a single catalogable item. Barcode is assigned once at creation
// (generated from the product ID unless supplied manually) and is unique
// across all products; the unique index is the authoritative guard against
// concurrent allocations picking the same code.
type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Barcode       *string         `gorm:"type:varchar(12);uniqueIndex" json:"barcode"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid" json:"category_id"`
	Category      *Category       `json:"category,omitempty" validate:"-"`
	LotID         *uuid.UUID      `gorm:"type:uuid" json:"lot_id"`
	Lot           *Lot            `json:"lot,omitempty" validate:"-"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"selling_price"`
	StockQuantity int             `gorm:"not null;default:1" json:"stock_quantity"`
	IsSold        bool            `gorm:"default:false" json:"is_sold"`
	SoldAt        *time.Time      `json:"sold_at,omitempty"`
}

// Margin is the per-unit profit at the current selling price.
func (p *Product) Margin() decimal.Decimal {
	return p.SellingPrice.Sub(p.CostPrice)
}
