package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return db
}

func insertProduct(t *testing.T, db *gorm.DB, name string, category enums.ProductCategory) models.Product {
	t.Helper()
	product := models.Product{
		ID:       uuid.New(),
		Name:     name,
		UnitType: "lbs",
		UnitSize: 1,
		Price:    10,
		Quantity: 5,
		Category: category,
		Pathway:  "/assets/product_images/placeholder.png",
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestRepository_CRUDRoundTrip(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	created := insertProduct(t, db, "Kale", enums.ProductCategoryVegetable)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Kale", found.Name)

	found.Price = 12.5
	require.NoError(t, repo.Update(context.Background(), found))

	reloaded, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 12.5, reloaded.Price)

	require.NoError(t, repo.Delete(context.Background(), created.ID))
	_, err = repo.FindByID(context.Background(), created.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ListByCategory(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	insertProduct(t, db, "Kale", enums.ProductCategoryVegetable)
	insertProduct(t, db, "Apple", enums.ProductCategoryFruit)
	insertProduct(t, db, "Chard", enums.ProductCategoryVegetable)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)

	vegetables, err := repo.ListByCategory(context.Background(), enums.ProductCategoryVegetable)
	require.NoError(t, err)
	require.Len(t, vegetables, 2)
	for _, p := range vegetables {
		require.Equal(t, enums.ProductCategoryVegetable, p.Category)
	}
}
