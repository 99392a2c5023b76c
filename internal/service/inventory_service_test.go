package service

import (
	"testing"
	"time"

	"go-resale-pos/internal/barcode"
	"go-resale-pos/internal/model"
	"go-resale-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
	barcodes map[string]uuid.UUID

	createErr     error
	setBarcodeErr error

	addStockCalls   int
	setBarcodeCalls int
	lastBarcode     string
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		barcodes: make(map[string]uuid.UUID),
	}
}

func (m *mockProductRepo) Create(product *model.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	product.ID = uuid.New()
	m.products[product.ID] = product
	if product.Barcode != nil {
		m.barcodes[*product.Barcode] = product.ID
	}
	return nil
}

func (m *mockProductRepo) FindAll() ([]model.Product, error) { return nil, nil }

func (m *mockProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockProductRepo) FindByBarcode(code string) (*model.Product, error) {
	id, ok := m.barcodes[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.products[id], nil
}

func (m *mockProductRepo) Search(query string) ([]model.Product, error) {
	return []model.Product{}, nil
}

func (m *mockProductRepo) BarcodeTaken(code string, excluding uuid.UUID) (bool, error) {
	id, ok := m.barcodes[code]
	return ok && id != excluding, nil
}

func (m *mockProductRepo) SetBarcode(id uuid.UUID, code string) error {
	m.setBarcodeCalls++
	m.lastBarcode = code
	if m.setBarcodeErr != nil {
		return m.setBarcodeErr
	}
	m.barcodes[code] = id
	if p, ok := m.products[id]; ok {
		p.Barcode = &code
	}
	return nil
}

func (m *mockProductRepo) UpdateSellingPrice(id uuid.UUID, price decimal.Decimal) error {
	return nil
}

func (m *mockProductRepo) MarkSold(id uuid.UUID, at time.Time) error { return nil }

func (m *mockProductRepo) AddStock(id uuid.UUID, quantity int) (*model.Product, error) {
	m.addStockCalls++
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.StockQuantity += quantity
	if p.StockQuantity > 0 {
		p.IsSold = false
		p.SoldAt = nil
	}
	return p, nil
}

func (m *mockProductRepo) CountUnsold() (int64, error) { return int64(len(m.products)), nil }
func (m *mockProductRepo) Delete(id uuid.UUID) error { return nil }

type stubCategoryRepo struct{}

func (stubCategoryRepo) Create(*model.Category) error { return nil }
func (stubCategoryRepo) FindAll() ([]model.Category, error) { return nil, nil }
func (stubCategoryRepo) Delete(uuid.UUID) error { return nil }

type stubSupplierRepo struct{}

func (stubSupplierRepo) Create(*model.Supplier) error { return nil }
func (stubSupplierRepo) FindAll() ([]model.Supplier, error) { return nil, nil }
func (stubSupplierRepo) FindByID(uuid.UUID) (*model.Supplier, error) { return nil, nil }
func (stubSupplierRepo) Delete(uuid.UUID) error { return nil }

type stubLotRepo struct {
	created *model.Lot
}

func (s *stubLotRepo) Create(lot *model.Lot) error { s.created = lot; return nil }
func (s *stubLotRepo) FindAll() ([]model.Lot, error) { return nil, nil }
func (s *stubLotRepo) FindByID(uuid.UUID) (*model.Lot, error) { return nil, nil }

func newTestInventoryService(productRepo repository.ProductRepository, lotRepo repository.LotRepository) InventoryService {
	return NewInventoryService(stubCategoryRepo{}, stubSupplierRepo{}, lotRepo, productRepo, testHub())
}

// ===== Products =====

func TestCreateProductAllocatesBarcode(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestInventoryService(repo, &stubLotRepo{})

	product, err := svc.CreateProduct(&CreateProductRequest{
		Name:         "Denim Jacket",
		CostPrice:    dec("4.00"),
		SellingPrice: dec("15.00"),
	})

	require.NoError(t, err)
	require.NotNil(t, product.Barcode)
	assert.Equal(t, barcode.Candidate(product.ID.String(), 0), *product.Barcode)
	assert.Equal(t, 1, repo.setBarcodeCalls)
	assert.Equal(t, 1, product.StockQuantity, "stock defaults to 1")
}

func TestCreateProductKeepsManualBarcode(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestInventoryService(repo, &stubLotRepo{})

	manual := "123456789012"
	stock := 5
	product, err := svc.CreateProduct(&CreateProductRequest{
		Name:          "Wool Coat",
		Barcode:       &manual,
		StockQuantity: &stock,
	})

	require.NoError(t, err)
	assert.Equal(t, manual, *product.Barcode)
	assert.Equal(t, 0, repo.setBarcodeCalls, "allocator must not run for manual barcodes")
	assert.Equal(t, 5, product.StockQuantity)
}

func TestCreateProductRejectsMalformedBarcode(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestInventoryService(repo, &stubLotRepo{})

	for _, code := range []string{"12345", "1234567890123", "12345678901!", ""} {
		bad := code
		_, err := svc.CreateProduct(&CreateProductRequest{Name: "Coat", Barcode: &bad})
		assert.ErrorIs(t, err, ErrInvalidBarcode, "code %q", code)
	}
	assert.Empty(t, repo.products, "nothing may be persisted")
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	repo := newMockProductRepo()
	repo.createErr = gorm.ErrDuplicatedKey
	svc := newTestInventoryService(repo, &stubLotRepo{})

	manual := "123456789012"
	_, err := svc.CreateProduct(&CreateProductRequest{Name: "Coat", Barcode: &manual})

	assert.ErrorIs(t, err, ErrDuplicateBarcode)
}

func TestCreateProductDuplicateGeneratedBarcode(t *testing.T) {
	// The allocator's existence check passed but the unique index rejected
	// the write: the storage layer is the final backstop.
	repo := newMockProductRepo()
	repo.setBarcodeErr = gorm.ErrDuplicatedKey
	svc := newTestInventoryService(repo, &stubLotRepo{})

	_, err := svc.CreateProduct(&CreateProductRequest{Name: "Coat"})

	assert.ErrorIs(t, err, ErrDuplicateBarcode)
}

func TestCreateProductRequiresName(t *testing.T) {
	svc := newTestInventoryService(newMockProductRepo(), &stubLotRepo{})

	_, err := svc.CreateProduct(&CreateProductRequest{})

	assert.Error(t, err)
}

// ===== Stock =====

func TestAddStockZeroIsNoOp(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestInventoryService(repo, &stubLotRepo{})

	product, err := svc.CreateProduct(&CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)

	got, err := svc.AddStock(product.ID, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, got.StockQuantity)
	assert.Equal(t, 0, repo.addStockCalls, "zero quantity must not write")
}

func TestAddStockAccumulates(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestInventoryService(repo, &stubLotRepo{})

	product, err := svc.CreateProduct(&CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)

	_, err = svc.AddStock(product.ID, 3)
	require.NoError(t, err)
	got, err := svc.AddStock(product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 1+6, got.StockQuantity)
	assert.Equal(t, 2, repo.addStockCalls)
}

func TestAddStockRevivesSoldOutProduct(t *testing.T) {
	// A checkout that drains stock to zero marks the product sold. Restocking
	// must bring it back: sold implies zero stock, never sold-with-stock.
	repo := newMockProductRepo()
	svc := newTestInventoryService(repo, &stubLotRepo{})

	product, err := svc.CreateProduct(&CreateProductRequest{Name: "Shirt"})
	require.NoError(t, err)

	soldAt := time.Now()
	stored := repo.products[product.ID]
	stored.StockQuantity = 0
	stored.IsSold = true
	stored.SoldAt = &soldAt

	got, err := svc.AddStock(product.ID, 4)

	require.NoError(t, err)
	assert.Equal(t, 4, got.StockQuantity)
	assert.False(t, got.IsSold)
	assert.Nil(t, got.SoldAt)
}

func TestAddStockRejectsNegative(t *testing.T) {
	svc := newTestInventoryService(newMockProductRepo(), &stubLotRepo{})

	_, err := svc.AddStock(uuid.New(), -1)

	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

// ===== Scan =====

func TestScanExactBarcodeMatch(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestInventoryService(repo, &stubLotRepo{})

	product, err := svc.CreateProduct(&CreateProductRequest{Name: "Scarf"})
	require.NoError(t, err)

	result, err := svc.Scan(*product.Barcode)

	require.NoError(t, err)
	require.NotNil(t, result.Product)
	assert.Equal(t, product.ID, result.Product.ID)
}

func TestScanUnknownBarcodeShape(t *testing.T) {
	svc := newTestInventoryService(newMockProductRepo(), &stubLotRepo{})

	_, err := svc.Scan("999999999999")

	assert.ErrorIs(t, err, ErrUnknownBarcode)
}

func TestScanFreeTextFallsBackToSearch(t *testing.T) {
	svc := newTestInventoryService(newMockProductRepo(), &stubLotRepo{})

	result, err := svc.Scan("vintage denim")

	require.NoError(t, err)
	assert.Nil(t, result.Product)
	assert.Empty(t, result.Matches)
}

// ===== Lots =====

func TestCreateLotComputesCosts(t *testing.T) {
	lotRepo := &stubLotRepo{}
	svc := newTestInventoryService(newMockProductRepo(), lotRepo)

	lot, err := svc.CreateLot(&CreateLotRequest{
		SupplierID:   uuid.New(),
		PurchaseCost: dec("100.00"),
		WashingCost:  dec("20.00"),
		TotalItems:   30,
	})

	require.NoError(t, err)
	assert.Equal(t, "120.00", lot.TotalCost.StringFixed(2))
	assert.Equal(t, "4.00", lot.CostPerItem.StringFixed(2))
	assert.Equal(t, lot, lotRepo.created)
	assert.False(t, lot.PurchaseDate.IsZero())
}

func TestCreateLotRequiresSupplierAndItems(t *testing.T) {
	svc := newTestInventoryService(newMockProductRepo(), &stubLotRepo{})

	_, err := svc.CreateLot(&CreateLotRequest{TotalItems: 10})
	assert.Error(t, err, "missing supplier")

	_, err = svc.CreateLot(&CreateLotRequest{SupplierID: uuid.New()})
	assert.Error(t, err, "missing item count")
}
