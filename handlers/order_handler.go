package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"boutique_backend/internal/shop"
	"boutique_backend/models"
)

type OrderHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
}

func NewOrderHandler(db *gorm.DB, sessions *session.Store) *OrderHandler {
	return &OrderHandler{DB: db, Sessions: sessions}
}

type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

// PlaceOrder - POST /place_order
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	userID, ok := sess.Get("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Non connecté"))
	}

	cart := getCart(sess)
	if len(cart) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Panier vide"))
	}

	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid input"))
	}

	order, err := shop.PlaceOrder(h.DB, userID, cart, req.ShippingAddress)
	if err != nil {
		return jsonError(c, err)
	}

	// Order placed, the session cart is discarded.
	if err := saveCart(sess, shop.Cart{}); err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(models.APIResponse{
		Success: true,
		Message: "Commande passée avec succès",
		OrderID: order.ID,
	})
}
