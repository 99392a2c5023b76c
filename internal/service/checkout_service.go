package service

import (
	"errors"
	"fmt"

	"go-resale-pos/internal/model"
	"go-resale-pos/internal/repository"
	"go-resale-pos/internal/ws"
	"go-resale-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAmountPaidMissing = errors.New("amount paid is required for cash payment")
)

// PaymentShortfallError rejects a cash payment below the sale total and
// names the missing amount so the operator can ask for the difference.
type PaymentShortfallError struct {
	Shortfall decimal.Decimal
}

func (e *PaymentShortfallError) Error() string {
	return fmt.Sprintf("amount paid is %s short of the total", e.Shortfall.StringFixed(2))
}

// SaleLine is one cart line submitted at checkout. UnitPrice is the price
// shown to the customer and becomes the snapshot stored on the sale item.
type SaleLine struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CompleteSaleRequest struct {
	Items         []SaleLine          `json:"items" validate:"required,min=1,dive"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required,oneof=cash promptpay khonlakhrueng"`
	AmountPaid    *decimal.Decimal    `json:"amount_paid"`
}

type CompleteSaleResult struct {
	Sale       *model.Sale     `json:"sale"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Change     decimal.Decimal `json:"change"`
}

type CheckoutService interface {
	CompleteSale(req *CompleteSaleRequest) (*CompleteSaleResult, error)
	GetSales() ([]model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
}

type checkoutService struct {
	saleRepo repository.SaleRepository
	wsHub    *ws.Hub
}

func NewCheckoutService(saleRepo repository.SaleRepository, hub *ws.Hub) CheckoutService {
	return &checkoutService{saleRepo: saleRepo, wsHub: hub}
}

// SaleTotal sums unit price times quantity over the cart lines.
func SaleTotal(items []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// CompleteSale validates the cart and payment, then persists the sale and
// the stock deduction atomically. Nothing is written when validation fails,
// so the operator's in-progress cart survives a rejection.
func (s *checkoutService) CompleteSale(req *CompleteSaleRequest) (*CompleteSaleResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	total := SaleTotal(req.Items)

	paid := total
	change := decimal.Zero
	if req.PaymentMethod == model.PaymentCash {
		if req.AmountPaid == nil {
			return nil, ErrAmountPaidMissing
		}
		paid = *req.AmountPaid
		if paid.LessThan(total) {
			return nil, &PaymentShortfallError{Shortfall: total.Sub(paid)}
		}
		change = paid.Sub(total)
	}

	sale := &model.Sale{
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
	}
	for _, line := range req.Items {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := s.saleRepo.CreateWithStockDeduction(sale); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "sale_completed",
		Payload: sale,
		Message: fmt.Sprintf("Sale of %s completed (%s)", total.StringFixed(2), req.PaymentMethod),
	})

	return &CompleteSaleResult{Sale: sale, AmountPaid: paid, Change: change}, nil
}

func (s *checkoutService) GetSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *checkoutService) GetSale(id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(id)
}
