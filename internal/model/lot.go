package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lot is a batch of stock purchased from one supplier. The aggregate cost
// is amortized over the declared item count, not over the products actually
// cataloged so far.
type Lot struct {
	BaseModel
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null" json:"supplier_id" validate:"uuid_required"`
	Supplier     *Supplier       `json:"supplier,omitempty" validate:"-"`
	PurchaseCost decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"purchase_cost"`
	WashingCost  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"washing_cost"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_cost"`
	TotalItems   int             `gorm:"not null" json:"total_items" validate:"required,gt=0"`
	CostPerItem  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_per_item"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Notes        string          `gorm:"type:text" json:"notes"`

	Products []Product `json:"products,omitempty" validate:"-"`
}

// ComputeCosts fills TotalCost and CostPerItem from the purchase and washing
// costs. CostPerItem divides by the declared TotalItems capacity and is
// rounded to 2 decimals.
func (l *Lot) ComputeCosts() {
	l.TotalCost = l.PurchaseCost.Add(l.WashingCost)
	if l.TotalItems > 0 {
		l.CostPerItem = l.TotalCost.DivRound(decimal.NewFromInt(int64(l.TotalItems)), 2)
	}
}
