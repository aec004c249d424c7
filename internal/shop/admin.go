package shop

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"boutique_backend/models"
)

// ProductInput is the admin-facing shape for creating or updating a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Category    string
	Stock       int
	IsActive    bool
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "Nom du produit requis"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Field: "category", Message: "Catégorie requise"}
	}
	if in.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "Prix invalide"}
	}
	if in.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "Stock invalide"}
	}
	return nil
}

// CreateProduct adds a product to the catalog.
func CreateProduct(db *gorm.DB, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct overwrites every editable field of an existing product.
func UpdateProduct(db *gorm.DB, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := GetProduct(db, id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.ImageURL = in.ImageURL
	product.Category = in.Category
	product.Stock = in.Stock
	product.IsActive = in.IsActive

	if err := db.Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product. Existing order items keep their name and
// price snapshots, so history survives the deletion.
func DeleteProduct(db *gorm.DB, id uint) error {
	product, err := GetProduct(db, id)
	if err != nil {
		return err
	}
	return db.Delete(product).Error
}

// AllProducts lists the whole catalog, inactive products included, for the
// admin panel.
func AllProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	err := db.Order("created_at desc").Find(&products).Error
	return products, err
}
