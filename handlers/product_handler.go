package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"boutique_backend/internal/shop"
	"boutique_backend/models"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// ProductRequest is the admin payload for product create/update.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"is_active"`
}

func (r ProductRequest) input() shop.ProductInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return shop.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Stock:       r.Stock,
		IsActive:    active,
	}
}

// APIProducts - GET /api/products
func (h *ProductHandler) APIProducts(c *fiber.Ctx) error {
	products, err := shop.ListActiveProducts(h.DB, shop.Filter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not fetch products"))
	}

	out := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		out = append(out, fiber.Map{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"image_url":   p.ImageURL,
			"category":    p.Category,
			"stock":       p.Stock,
		})
	}
	return c.JSON(out)
}

// AddProduct - POST /admin/add_product
func (h *ProductHandler) AddProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid input"))
	}

	product, err := shop.CreateProduct(h.DB, req.input())
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Produit ajouté", product))
}

// UpdateProduct - POST /admin/update_product/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid product ID"))
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid input"))
	}

	product, err := shop.UpdateProduct(h.DB, uint(id), req.input())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(models.SuccessResponse("Produit modifié", product))
}

// DeleteProduct - DELETE /admin/delete_product/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid product ID"))
	}

	if err := shop.DeleteProduct(h.DB, uint(id)); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(models.SuccessResponse("Produit supprimé", nil))
}
