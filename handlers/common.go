package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"boutique_backend/internal/shop"
	"boutique_backend/models"
)

// The cart lives in the session as a JSON string so it survives the session
// storage codec without gob registration.
func getCart(sess *session.Session) shop.Cart {
	cart := shop.Cart{}
	if raw, ok := sess.Get("cart").(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &cart); err != nil {
			return shop.Cart{}
		}
	}
	return cart
}

func saveCart(sess *session.Session, cart shop.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	sess.Set("cart", string(raw))
	return sess.Save()
}

// jsonError maps domain errors onto the {success:false, message} envelope.
func jsonError(c *fiber.Ctx, err error) error {
	var (
		validation *shop.ValidationError
		stock      *shop.InsufficientStockError
	)

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(validation.Message))
	case errors.As(err, &stock):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(stock.Error()))
	case errors.Is(err, shop.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Produit introuvable"))
	case errors.Is(err, shop.ErrDuplicateUsername):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse("Ce nom d'utilisateur existe déjà"))
	case errors.Is(err, shop.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse("Cette adresse email existe déjà"))
	case errors.Is(err, shop.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Nom d'utilisateur ou mot de passe incorrect"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Internal Server Error"))
	}
}
