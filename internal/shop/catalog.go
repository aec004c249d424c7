package shop

import (
	"errors"

	"boutique_backend/models"

	"gorm.io/gorm"
)

// Filter restricts a product listing. Category is an exact match, Search a
// substring match on the product name.
type Filter struct {
	Category string
	Search   string
}

// ListActiveProducts returns active products matching the filter, newest first.
func ListActiveProducts(db *gorm.DB, filter Filter) ([]models.Product, error) {
	var products []models.Product
	query := db.Where("is_active = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Order("created_at desc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// LatestActiveProducts returns up to limit active products for the home page.
func LatestActiveProducts(db *gorm.DB, limit int) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("is_active = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// GetProduct resolves a product by ID regardless of its active flag.
func GetProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Categories returns the distinct categories of active products.
func Categories(db *gorm.DB) ([]string, error) {
	var categories []string
	err := db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}
