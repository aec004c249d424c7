package shop

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"boutique_backend/models"
)

// Cart is the session-scoped mapping from product ID to requested quantity.
// It is never persisted; the session layer carries it between requests and
// drops it on successful order placement.
type Cart map[uint]int

// CartLine is one resolved cart entry with its derived line total.
type CartLine struct {
	Product  models.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// AddToCart increments the cart entry for a product after checking the
// requested quantity against current stock. The increment is additive.
func AddToCart(db *gorm.DB, cart Cart, productID uint, quantity int) error {
	if quantity < 1 {
		return &ValidationError{Field: "quantity", Message: "Quantité invalide"}
	}

	product, err := GetProduct(db, productID)
	if err != nil {
		return err
	}

	if product.Stock < quantity {
		return &InsufficientStockError{ProductName: product.Name}
	}

	cart[productID] += quantity
	return nil
}

// SetQuantity overwrites a cart entry. A quantity of zero or less removes it.
func SetQuantity(cart Cart, productID uint, quantity int) {
	if quantity <= 0 {
		delete(cart, productID)
		return
	}
	cart[productID] = quantity
}

// CartView resolves every cart entry and computes the derived totals.
// Entries whose product no longer exists are skipped silently.
func CartView(db *gorm.DB, cart Cart) ([]CartLine, decimal.Decimal, error) {
	lines := make([]CartLine, 0, len(cart))
	total := decimal.Zero

	for productID, quantity := range cart {
		product, err := GetProduct(db, productID)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, decimal.Zero, err
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
		lines = append(lines, CartLine{
			Product:  *product,
			Quantity: quantity,
			Total:    lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return lines, total, nil
}
