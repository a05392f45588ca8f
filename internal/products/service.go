package products

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
)

// ImageStore abstracts the uploaded-image filesystem.
type ImageStore interface {
	Save(r io.Reader, originalName string) (string, error)
	Remove(pathway string) error
	IsPlaceholder(pathway string) bool
	Placeholder() string
}

// Upload pairs an image stream with its client-supplied filename.
type Upload struct {
	Reader   io.Reader
	Filename string
}

// Service defines catalog CRUD with image lifecycle management.
type Service interface {
	Create(ctx context.Context, input ProductInput, image *Upload) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput, image *Upload) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, categoryFilter string) ([]ProductDTO, error)
}

// ServiceParams wires catalog dependencies.
type ServiceParams struct {
	Products Repository
	Images   ImageStore
	Logger   *logger.Logger
}

type service struct {
	products Repository
	images   ImageStore
	logg     *logger.Logger
}

// NewService validates dependencies and returns the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	if params.Images == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image store required")
	}
	return &service{
		products: params.Products,
		images:   params.Images,
		logg:     params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, input ProductInput, image *Upload) (*ProductDTO, error) {
	category, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	pathway := s.images.Placeholder()
	if image != nil {
		pathway, err = s.images.Save(image.Reader, image.Filename)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
		}
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		UnitType:    strings.TrimSpace(input.UnitType),
		UnitSize:    input.UnitSize,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Category:    category,
		Pathway:     pathway,
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.removeBestEffort(ctx, pathway)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "product_id", product.ID.String())
		s.logg.Info(logCtx, "products.create.success")
	}

	dto := toDTO(product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ProductInput, image *Upload) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	category, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	previousPathway := product.Pathway
	if image != nil {
		pathway, err := s.images.Save(image.Reader, image.Filename)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
		}
		product.Pathway = pathway
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.UnitType = strings.TrimSpace(input.UnitType)
	product.UnitSize = input.UnitSize
	product.Price = input.Price
	product.Quantity = input.Quantity
	product.Category = category

	if err := s.products.Update(ctx, product); err != nil {
		if image != nil {
			s.removeBestEffort(ctx, product.Pathway)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	// The replaced image is orphaned once the record points elsewhere.
	// Removal is best-effort; the update itself already succeeded.
	if image != nil && previousPathway != product.Pathway {
		s.removeBestEffort(ctx, previousPathway)
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "product_id", product.ID.String())
		s.logg.Info(logCtx, "products.update.success")
	}

	dto := toDTO(product)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	s.removeBestEffort(ctx, product.Pathway)

	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "product_id", id.String())
		s.logg.Info(logCtx, "products.delete.success")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	dto := toDTO(product)
	return &dto, nil
}

func (s *service) List(ctx context.Context, categoryFilter string) ([]ProductDTO, error) {
	if categoryFilter == "" {
		rows, err := s.products.List(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
		}
		return toDTOs(rows), nil
	}

	category, err := enums.ParseProductCategory(categoryFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]string{"category": "must be a known category"})
	}

	rows, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toDTOs(rows), nil
}

// validate collects every invalid field so the caller sees them all at once.
func (s *service) validate(input ProductInput) (enums.ProductCategory, error) {
	details := map[string]string{}

	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.UnitType) == "" {
		details["unit_type"] = "is required"
	}
	if input.UnitSize <= 0 {
		details["unit_size"] = "must be greater than 0"
	}
	if input.Price <= 0 {
		details["price"] = "must be greater than 0"
	}
	if input.Quantity < 0 {
		details["quantity"] = "must be at least 0"
	}

	category, err := enums.ParseProductCategory(input.Category)
	if err != nil {
		details["category"] = "must be a known category"
	}

	if len(details) > 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return category, nil
}

func (s *service) removeBestEffort(ctx context.Context, pathway string) {
	if s.images.IsPlaceholder(pathway) {
		return
	}
	if err := s.images.Remove(pathway); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "pathway", pathway)
		s.logg.Warn(logCtx, "products.image.remove_failed")
	}
}
