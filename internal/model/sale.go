package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentPromptPay     PaymentMethod = "promptpay"
	PaymentKhonLaKhrueng PaymentMethod = "khonlakhrueng"
)

// Sale is a completed checkout transaction.
type Sale struct {
	BaseModel
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required,oneof=cash promptpay khonlakhrueng"`
	Items         []SaleItem      `json:"items,omitempty" validate:"-"`
}

// SaleItem is one cart line of a sale. UnitPrice is a snapshot of the
// product's selling price at the time of sale.
type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   *Product        `json:"product,omitempty" validate:"-"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}
