package service

import (
	"errors"
	"time"

	"go-resale-pos/internal/barcode"
	"go-resale-pos/internal/model"
	"go-resale-pos/internal/repository"
	"go-resale-pos/internal/ws"
	"go-resale-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateBarcode surfaces a storage-level uniqueness violation on
	// the barcode column as a distinct creation failure.
	ErrDuplicateBarcode = errors.New("barcode already assigned to another product")

	// ErrUnknownBarcode means the scanned code has barcode shape but no
	// product carries it, as opposed to a free-text search with no hits.
	ErrUnknownBarcode = errors.New("barcode is not in inventory")

	// ErrInvalidBarcode rejects a manually supplied code that does not fit
	// the stored format before it reaches the varchar(12) column.
	ErrInvalidBarcode = errors.New("barcode must be exactly 12 alphanumeric characters")

	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Barcode       *string         `json:"barcode"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	LotID         *uuid.UUID      `json:"lot_id"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity *int            `json:"stock_quantity"`
}

type CreateLotRequest struct {
	SupplierID   uuid.UUID       `json:"supplier_id" validate:"uuid_required"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	WashingCost  decimal.Decimal `json:"washing_cost"`
	TotalItems   int             `json:"total_items" validate:"required,gt=0"`
	PurchaseDate *time.Time      `json:"purchase_date"`
	Notes        string          `json:"notes"`
}

// ScanResult distinguishes an exact barcode hit from a free-text search.
type ScanResult struct {
	Product *model.Product  `json:"product,omitempty"`
	Matches []model.Product `json:"matches,omitempty"`
}

type InventoryService interface {
	GetCategories() ([]model.Category, error)
	CreateCategory(name string) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error

	GetSuppliers() ([]model.Supplier, error)
	CreateSupplier(supplier *model.Supplier) error
	DeleteSupplier(id uuid.UUID) error

	GetLots() ([]model.Lot, error)
	GetLot(id uuid.UUID) (*model.Lot, error)
	CreateLot(req *CreateLotRequest) (*model.Lot, error)

	GetProducts() ([]model.Product, error)
	CreateProduct(req *CreateProductRequest) (*model.Product, error)
	UpdateSellingPrice(id uuid.UUID, price decimal.Decimal) (*model.Product, error)
	MarkProductSold(id uuid.UUID) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error

	AddStock(id uuid.UUID, quantity int) (*model.Product, error)
	Scan(code string) (*ScanResult, error)
}

type inventoryService struct {
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	lotRepo      repository.LotRepository
	productRepo  repository.ProductRepository
	allocator    *barcode.Allocator
	wsHub        *ws.Hub
}

func NewInventoryService(
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		lotRepo:      lotRepo,
		productRepo:  productRepo,
		allocator:    barcode.NewAllocator(productRepo),
		wsHub:        hub,
	}
}

// ===== Categories =====

func (s *inventoryService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *inventoryService) CreateCategory(name string) (*model.Category, error) {
	category := &model.Category{Name: name}
	if err := validator.FirstError(category); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *inventoryService) DeleteCategory(id uuid.UUID) error {
	return s.categoryRepo.Delete(id)
}

// ===== Suppliers =====

func (s *inventoryService) GetSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *inventoryService) CreateSupplier(supplier *model.Supplier) error {
	if err := validator.FirstError(supplier); err != nil {
		return err
	}
	return s.supplierRepo.Create(supplier)
}

func (s *inventoryService) DeleteSupplier(id uuid.UUID) error {
	return s.supplierRepo.Delete(id)
}

// ===== Lots =====

func (s *inventoryService) GetLots() ([]model.Lot, error) {
	return s.lotRepo.FindAll()
}

func (s *inventoryService) GetLot(id uuid.UUID) (*model.Lot, error) {
	return s.lotRepo.FindByID(id)
}

func (s *inventoryService) CreateLot(req *CreateLotRequest) (*model.Lot, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	lot := &model.Lot{
		SupplierID:   req.SupplierID,
		PurchaseCost: req.PurchaseCost,
		WashingCost:  req.WashingCost,
		TotalItems:   req.TotalItems,
		PurchaseDate: time.Now(),
		Notes:        req.Notes,
	}
	if req.PurchaseDate != nil {
		lot.PurchaseDate = *req.PurchaseDate
	}
	lot.ComputeCosts()

	if err := s.lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// ===== Products =====

func (s *inventoryService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

// CreateProduct persists the product first so its ID is stable, then assigns
// a generated barcode when none was supplied. A uniqueness violation on the
// barcode column is reported as ErrDuplicateBarcode either way.
func (s *inventoryService) CreateProduct(req *CreateProductRequest) (*model.Product, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if req.Barcode != nil && !barcode.IsCode(*req.Barcode) {
		return nil, ErrInvalidBarcode
	}

	stock := 1
	if req.StockQuantity != nil {
		stock = *req.StockQuantity
	}
	if stock < 0 {
		return nil, ErrNegativeQuantity
	}

	product := &model.Product{
		Name:          req.Name,
		Barcode:       req.Barcode,
		CategoryID:    req.CategoryID,
		LotID:         req.LotID,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: stock,
	}

	if err := s.productRepo.Create(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateBarcode
		}
		return nil, err
	}

	if product.Barcode == nil {
		code, err := s.allocator.Allocate(product.ID)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.SetBarcode(product.ID, code); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrDuplicateBarcode
			}
			return nil, err
		}
		product.Barcode = &code
	}

	s.wsHub.Publish(ws.Event{
		Type:    "product_created",
		Payload: product,
		Message: "Product '" + product.Name + "' added to inventory",
	})

	return product, nil
}

func (s *inventoryService) UpdateSellingPrice(id uuid.UUID, price decimal.Decimal) (*model.Product, error) {
	if err := s.productRepo.UpdateSellingPrice(id, price); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(id)
}

func (s *inventoryService) MarkProductSold(id uuid.UUID) (*model.Product, error) {
	if err := s.productRepo.MarkSold(id, time.Now()); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(id)
}

func (s *inventoryService) DeleteProduct(id uuid.UUID) error {
	return s.productRepo.Delete(id)
}

// ===== Stock =====

// AddStock increments a product's stock by quantity. Zero is a no-op that
// simply returns the current record.
func (s *inventoryService) AddStock(id uuid.UUID, quantity int) (*model.Product, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if quantity == 0 {
		return s.productRepo.FindByID(id)
	}

	product, err := s.productRepo.AddStock(id, quantity)
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "stock_added",
		Payload: product,
		Message: "Stock updated for '" + product.Name + "'",
	})

	return product, nil
}

// Scan resolves an operator-entered code. An exact barcode match wins; a
// code that merely looks like a barcode but is unknown is an error distinct
// from a free-text search, which returns its (possibly empty) matches.
func (s *inventoryService) Scan(code string) (*ScanResult, error) {
	product, err := s.productRepo.FindByBarcode(code)
	if err == nil {
		return &ScanResult{Product: product}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if barcode.IsBarcode(code) {
		return nil, ErrUnknownBarcode
	}

	matches, err := s.productRepo.Search(code)
	if err != nil {
		return nil, err
	}
	return &ScanResult{Matches: matches}, nil
}
