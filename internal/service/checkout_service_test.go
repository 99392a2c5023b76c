package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go-resale-pos/internal/model"
	"go-resale-pos/internal/repository"
	"go-resale-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSaleRepo struct {
	created   *model.Sale
	createErr error
}

func (m *mockSaleRepo) CreateWithStockDeduction(sale *model.Sale) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = sale
	return nil
}

func (m *mockSaleRepo) FindAll() ([]model.Sale, error) { return nil, nil }
func (m *mockSaleRepo) FindByID(uuid.UUID) (*model.Sale, error) { return nil, nil }
func (m *mockSaleRepo) SalesOverTime(_ time.Time) ([]repository.SalesPoint, error) {
	return nil, nil
}
func (m *mockSaleRepo) RecentSales(int) ([]repository.RecentSale, error) { return nil, nil }
func (m *mockSaleRepo) PeriodSummary(_, _ time.Time) (*repository.PeriodSummary, error) {
	return nil, nil
}

func testHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func twoLineCart() []SaleLine {
	return []SaleLine{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: dec("50.00")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("15.00")},
	}
}

func TestSaleTotal(t *testing.T) {
	assert.Equal(t, "115.00", SaleTotal(twoLineCart()).StringFixed(2))
	assert.True(t, SaleTotal(nil).IsZero())
}

func TestCompleteSaleCashWithChange(t *testing.T) {
	repo := &mockSaleRepo{}
	svc := NewCheckoutService(repo, testHub())

	paid := dec("120.00")
	result, err := svc.CompleteSale(&CompleteSaleRequest{
		Items:         twoLineCart(),
		PaymentMethod: model.PaymentCash,
		AmountPaid:    &paid,
	})

	require.NoError(t, err)
	assert.Equal(t, "115.00", result.Sale.TotalAmount.StringFixed(2))
	assert.Equal(t, "5.00", result.Change.StringFixed(2))
	require.NotNil(t, repo.created)
	assert.Len(t, repo.created.Items, 2)
	assert.Equal(t, "50.00", repo.created.Items[0].UnitPrice.StringFixed(2))
}

func TestCompleteSaleCashShortfallRejected(t *testing.T) {
	repo := &mockSaleRepo{}
	svc := NewCheckoutService(repo, testHub())

	paid := dec("100.00")
	_, err := svc.CompleteSale(&CompleteSaleRequest{
		Items:         twoLineCart(),
		PaymentMethod: model.PaymentCash,
		AmountPaid:    &paid,
	})

	var shortfall *PaymentShortfallError
	require.ErrorAs(t, err, &shortfall)
	assert.Equal(t, "15.00", shortfall.Shortfall.StringFixed(2))
	assert.Nil(t, repo.created, "nothing must be persisted on rejection")
}

func TestCompleteSaleCashRequiresAmountPaid(t *testing.T) {
	svc := NewCheckoutService(&mockSaleRepo{}, testHub())

	_, err := svc.CompleteSale(&CompleteSaleRequest{
		Items:         twoLineCart(),
		PaymentMethod: model.PaymentCash,
	})

	assert.ErrorIs(t, err, ErrAmountPaidMissing)
}

func TestCompleteSaleTransferNeedsNoAmount(t *testing.T) {
	repo := &mockSaleRepo{}
	svc := NewCheckoutService(repo, testHub())

	result, err := svc.CompleteSale(&CompleteSaleRequest{
		Items:         twoLineCart(),
		PaymentMethod: model.PaymentPromptPay,
	})

	require.NoError(t, err)
	assert.True(t, result.Change.IsZero())
	assert.Equal(t, "115.00", result.AmountPaid.StringFixed(2))
}

func TestCompleteSaleEmptyCart(t *testing.T) {
	svc := NewCheckoutService(&mockSaleRepo{}, testHub())

	_, err := svc.CompleteSale(&CompleteSaleRequest{PaymentMethod: model.PaymentCash})

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCompleteSaleInvalidPaymentMethod(t *testing.T) {
	svc := NewCheckoutService(&mockSaleRepo{}, testHub())

	_, err := svc.CompleteSale(&CompleteSaleRequest{
		Items:         twoLineCart(),
		PaymentMethod: "credit-card",
	})

	assert.Error(t, err)
}

func TestCompleteSaleInsufficientStockPropagates(t *testing.T) {
	repoErr := fmt.Errorf("%w for 'Vintage Jacket'", repository.ErrInsufficientStock)
	svc := NewCheckoutService(&mockSaleRepo{createErr: repoErr}, testHub())

	_, err := svc.CompleteSale(&CompleteSaleRequest{
		Items:         twoLineCart(),
		PaymentMethod: model.PaymentKhonLaKhrueng,
	})

	assert.True(t, errors.Is(err, repository.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Vintage Jacket")
}
