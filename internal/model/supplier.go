package model

// Supplier is the source a lot of stock was purchased from.
type Supplier struct {
	BaseModel
	Name  string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone string `gorm:"type:varchar(20)" json:"phone"`
	Notes string `gorm:"type:text" json:"notes"`
}
