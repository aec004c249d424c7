package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"

	"boutique_backend/config"
	"boutique_backend/handlers"
	"boutique_backend/middleware"
	"boutique_backend/utils"
)

func main() {
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		AppName:      "Boutique Backend",
		ServerHeader: "Boutique Backend Server/1.0",
		Views:        engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app)

	sessions := session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
	})

	pages := handlers.NewPageHandler(db, sessions)
	carts := handlers.NewCartHandler(db, sessions)
	orders := handlers.NewOrderHandler(db, sessions)
	products := handlers.NewProductHandler(db)
	auth := handlers.NewAuthHandler(db)
	uploads := handlers.NewUploadHandler()

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	// Pages
	app.Get("/", pages.Index)
	app.Get("/products", pages.Products)
	app.Get("/product/:id", pages.ProductDetail)
	app.Get("/cart", pages.CartPage)
	app.Get("/checkout", middleware.RequireLogin(sessions), pages.CheckoutPage)
	app.Get("/login", pages.LoginPage)
	app.Post("/login", pages.Login)
	app.Get("/register", pages.RegisterPage)
	app.Post("/register", pages.Register)
	app.Get("/logout", pages.Logout)
	app.Get("/admin", pages.AdminPage)

	// Session JSON endpoints
	app.Post("/add_to_cart", carts.AddToCart)
	app.Post("/update_cart", carts.UpdateCart)
	app.Post("/place_order", orders.PlaceOrder)

	// Admin JSON endpoints (browser session)
	admin := app.Group("/admin", middleware.RequireAdmin(sessions))
	admin.Post("/add_product", products.AddProduct)
	admin.Post("/update_product/:id", products.UpdateProduct)
	admin.Delete("/delete_product/:id", products.DeleteProduct)
	admin.Post("/upload_image", uploads.UploadImage)

	// Public JSON API
	app.Get("/api/products", products.APIProducts)
	app.Post("/api/auth/register", auth.Register)
	app.Post("/api/auth/login", auth.Login)

	// Token-based admin API mirrors the session-gated endpoints
	api := app.Group("/api/admin", utils.AuthMiddleware, middleware.RequireAdmin(sessions))
	api.Post("/products", products.AddProduct)
	api.Post("/products/:id", products.UpdateProduct)
	api.Delete("/products/:id", products.DeleteProduct)

	// Uploaded product images
	app.Static("/uploads", "./uploads")

	middleware.SetupErrorHandler(app)

	log.Printf("🚀 Server starting on host %s in port %s mode", cfg.HOST, cfg.AppPort)

	if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
