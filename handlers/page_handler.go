package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"boutique_backend/internal/shop"
)

type PageHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
}

func NewPageHandler(db *gorm.DB, sessions *session.Store) *PageHandler {
	return &PageHandler{DB: db, Sessions: sessions}
}

// viewer collects the session facts every page needs for the navbar.
func (h *PageHandler) viewer(c *fiber.Ctx) (*session.Session, fiber.Map) {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return nil, fiber.Map{}
	}

	data := fiber.Map{}
	if username, ok := sess.Get("username").(string); ok {
		data["Username"] = username
	}
	if isAdmin, ok := sess.Get("is_admin").(bool); ok {
		data["IsAdmin"] = isAdmin
	}
	data["CartSize"] = len(getCart(sess))
	return sess, data
}

// Index - GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	products, err := shop.LatestActiveProducts(h.DB, 8)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	_, data := h.viewer(c)
	data["Products"] = products
	return c.Render("index", data, "layouts/main")
}

// Products - GET /products
func (h *PageHandler) Products(c *fiber.Ctx) error {
	filter := shop.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	products, err := shop.ListActiveProducts(h.DB, filter)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	categories, err := shop.Categories(h.DB)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	_, data := h.viewer(c)
	data["Products"] = products
	data["Categories"] = categories
	data["CurrentCategory"] = filter.Category
	data["SearchTerm"] = filter.Search
	return c.Render("products", data, "layouts/main")
}

// ProductDetail - GET /product/:id
func (h *PageHandler) ProductDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	product, err := shop.GetProduct(h.DB, uint(id))
	if err != nil {
		return fiber.ErrNotFound
	}

	_, data := h.viewer(c)
	data["Product"] = product
	return c.Render("product_detail", data, "layouts/main")
}

// CartPage - GET /cart
func (h *PageHandler) CartPage(c *fiber.Ctx) error {
	sess, data := h.viewer(c)
	if sess == nil {
		return fiber.ErrInternalServerError
	}

	lines, total, err := shop.CartView(h.DB, getCart(sess))
	if err != nil {
		return fiber.ErrInternalServerError
	}

	data["Items"] = lines
	data["Total"] = total
	return c.Render("cart", data, "layouts/main")
}

// CheckoutPage - GET /checkout
func (h *PageHandler) CheckoutPage(c *fiber.Ctx) error {
	sess, data := h.viewer(c)
	if sess == nil {
		return c.Redirect("/login")
	}

	cart := getCart(sess)
	if len(cart) == 0 {
		return c.Redirect("/cart")
	}

	lines, total, err := shop.CartView(h.DB, cart)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	data["Items"] = lines
	data["Total"] = total
	return c.Render("checkout", data, "layouts/main")
}

// LoginPage - GET /login
func (h *PageHandler) LoginPage(c *fiber.Ctx) error {
	_, data := h.viewer(c)
	return c.Render("login", data, "layouts/main")
}

// Login - POST /login
func (h *PageHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := shop.Authenticate(h.DB, username, password)
	if err != nil {
		_, data := h.viewer(c)
		data["Error"] = "Nom d'utilisateur ou mot de passe incorrect"
		return c.Render("login", data, "layouts/main")
	}

	sess, err := h.Sessions.Get(c)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	sess.Set("user_id", user.ID)
	sess.Set("username", user.Username)
	sess.Set("is_admin", user.IsAdmin)
	if err := sess.Save(); err != nil {
		return fiber.ErrInternalServerError
	}

	return c.Redirect("/")
}

// RegisterPage - GET /register
func (h *PageHandler) RegisterPage(c *fiber.Ctx) error {
	_, data := h.viewer(c)
	return c.Render("register", data, "layouts/main")
}

// Register - POST /register
func (h *PageHandler) Register(c *fiber.Ctx) error {
	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")

	if _, err := shop.Register(h.DB, username, email, password); err != nil {
		_, data := h.viewer(c)
		switch err {
		case shop.ErrDuplicateUsername:
			data["Error"] = "Ce nom d'utilisateur existe déjà"
		case shop.ErrDuplicateEmail:
			data["Error"] = "Cette adresse email existe déjà"
		default:
			data["Error"] = "Inscription impossible"
		}
		return c.Render("register", data, "layouts/main")
	}

	return c.Redirect("/login")
}

// Logout - GET /logout
func (h *PageHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err == nil {
		sess.Destroy()
	}
	return c.Redirect("/")
}

// AdminPage - GET /admin
func (h *PageHandler) AdminPage(c *fiber.Ctx) error {
	sess, data := h.viewer(c)
	if sess == nil {
		return c.Redirect("/")
	}
	if isAdmin, _ := sess.Get("is_admin").(bool); !isAdmin {
		return c.Redirect("/")
	}

	products, err := shop.AllProducts(h.DB)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	orders, err := shop.RecentOrders(h.DB, 10)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	data["Products"] = products
	data["Orders"] = orders
	return c.Render("admin", data, "layouts/main")
}
