package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
)

// ProductInput carries the mutable catalog fields, as submitted by the
// multipart form. Numeric fields arrive as strings and are parsed by the
// controller before validation here.
type ProductInput struct {
	Name        string
	Description string
	UnitType    string
	UnitSize    float64
	Price       float64
	Quantity    int
	Category    string
}

// ProductDTO is the public projection of a catalog entry.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	UnitType    string                `json:"unit_type"`
	UnitSize    float64               `json:"unit_size"`
	Price       float64               `json:"price"`
	Quantity    int                   `json:"quantity"`
	Category    enums.ProductCategory `json:"category"`
	Pathway     string                `json:"pathway"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func toDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitType:    p.UnitType,
		UnitSize:    p.UnitSize,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		Pathway:     p.Pathway,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out
}
