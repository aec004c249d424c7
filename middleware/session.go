package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"boutique_backend/models"
)

// RequireLogin redirects anonymous browser sessions to the login page.
func RequireLogin(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Redirect("/login")
		}
		if sess.Get("user_id") == nil {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAdmin gates admin JSON endpoints. A session with the admin flag or a
// Bearer token carrying is_admin (set by utils.AuthMiddleware upstream) both
// pass; everything else gets a 401/403 envelope.
func RequireAdmin(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Token-based API access set by the JWT middleware.
		if isAdmin, ok := c.Locals("is_admin").(bool); ok {
			if isAdmin {
				return c.Next()
			}
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Non autorisé"))
		}

		sess, err := store.Get(c)
		if err != nil || sess.Get("user_id") == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Non connecté"))
		}
		if isAdmin, _ := sess.Get("is_admin").(bool); !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Non autorisé"))
		}
		return c.Next()
	}
}
