package repository

import (
	"go-resale-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LotRepository interface {
	Create(lot *model.Lot) error
	FindAll() ([]model.Lot, error)
	FindByID(id uuid.UUID) (*model.Lot, error)
}

type lotRepo struct {
	db *gorm.DB
}

func NewLotRepo(db *gorm.DB) LotRepository {
	return &lotRepo{db}
}

func (r *lotRepo) Create(lot *model.Lot) error {
	return r.db.Create(lot).Error
}

func (r *lotRepo) FindAll() ([]model.Lot, error) {
	var lots []model.Lot
	err := r.db.
		Preload("Supplier").
		Preload("Products.Category").
		Order("purchase_date DESC").
		Find(&lots).Error
	return lots, err
}

func (r *lotRepo) FindByID(id uuid.UUID) (*model.Lot, error) {
	var lot model.Lot
	err := r.db.
		Preload("Supplier").
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("products.created_at DESC")
		}).
		Preload("Products.Category").
		First(&lot, "id = ?", id).Error
	return &lot, err
}
