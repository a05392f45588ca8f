package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the canonical catalog categories.
type ProductCategory string

const (
	ProductCategoryFruit       ProductCategory = "fruit"
	ProductCategoryVegetable   ProductCategory = "vegetable"
	ProductCategoryMeat        ProductCategory = "meat"
	ProductCategoryDairy       ProductCategory = "dairy"
	ProductCategoryOutOfSeason ProductCategory = "out_of_season"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFruit,
	ProductCategoryVegetable,
	ProductCategoryMeat,
	ProductCategoryDairy,
	ProductCategoryOutOfSeason,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory. Legacy
// clients send display labels like "Out of Season", so input is normalized
// before matching.
func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "_")
	for _, candidate := range validProductCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
