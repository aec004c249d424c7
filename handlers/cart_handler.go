package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"boutique_backend/internal/shop"
	"boutique_backend/models"
)

type CartHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
}

func NewCartHandler(db *gorm.DB, sessions *session.Store) *CartHandler {
	return &CartHandler{DB: db, Sessions: sessions}
}

// CartMutationRequest is shared by add and update: add treats Quantity as an
// increment, update as an overwrite.
type CartMutationRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// AddToCart - POST /add_to_cart
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	req := CartMutationRequest{Quantity: 1}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid input"))
	}

	sess, err := h.Sessions.Get(c)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	cart := getCart(sess)
	if err := shop.AddToCart(h.DB, cart, req.ProductID, req.Quantity); err != nil {
		return jsonError(c, err)
	}
	if err := saveCart(sess, cart); err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(models.SuccessResponse("Produit ajouté au panier", nil))
}

// UpdateCart - POST /update_cart
func (h *CartHandler) UpdateCart(c *fiber.Ctx) error {
	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid input"))
	}

	sess, err := h.Sessions.Get(c)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	cart := getCart(sess)
	shop.SetQuantity(cart, req.ProductID, req.Quantity)
	if err := saveCart(sess, cart); err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(models.SuccessResponse("Panier mis à jour", nil))
}
