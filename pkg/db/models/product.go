package models

import (
	"time"

	"github.com/farmtotable/farmtotable-backend/pkg/enums"
	"github.com/google/uuid"
)

// Product is a catalog entry. Pathway points at the stored image file, or at
// the shared placeholder asset when no image was ever uploaded.
type Product struct {
	ID          uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name        string                `gorm:"type:text;not null"`
	Description string                `gorm:"type:text"`
	UnitType    string                `gorm:"column:unit_type;not null"`
	UnitSize    float64               `gorm:"column:unit_size;not null"`
	Price       float64               `gorm:"type:numeric;not null"`
	Quantity    int                   `gorm:"not null"`
	Category    enums.ProductCategory `gorm:"not null;index"`
	Pathway     string                `gorm:"type:text;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
