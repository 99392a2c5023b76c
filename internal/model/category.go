package model

// Category is a simple named grouping for products (shirts, jackets, ...).
type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
}
