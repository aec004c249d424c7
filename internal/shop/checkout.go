package shop

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"boutique_backend/models"
)

// PlaceOrder turns a cart into a pending order. Stock is re-checked for every
// line before anything is written; order, items and stock decrements are then
// committed in a single transaction so the store is never left with an order
// lacking items or a decrement lacking an order. The cart itself is left
// untouched — the caller clears its session copy once the order exists.
func PlaceOrder(db *gorm.DB, userID uint, cart Cart, shippingAddress string) (*models.Order, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, &ValidationError{Field: "shipping_address", Message: "Adresse de livraison requise"}
	}
	if len(cart) == 0 {
		return nil, &ValidationError{Field: "cart", Message: "Panier vide"}
	}

	// Stable line order keeps order items deterministic.
	productIDs := make([]uint, 0, len(cart))
	for id := range cart {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	// 1. Re-resolve every line and verify stock; any failure aborts the whole
	//    order with nothing written. Prices are snapshotted here.
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart))
	products := make([]models.Product, 0, len(cart))

	for _, productID := range productIDs {
		quantity := cart[productID]

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		if quantity < 1 {
			tx.Rollback()
			return nil, &ValidationError{Field: "quantity", Message: "Quantité invalide"}
		}
		if product.Stock < quantity {
			tx.Rollback()
			return nil, &InsufficientStockError{ProductName: product.Name}
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(quantity))))
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			Price:       product.Price,
		})
		products = append(products, product)
	}

	// 2. Create the order with its snapshot total.
	order := models.Order{
		Number:          uuid.NewString(),
		UserID:          userID,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		ShippingAddress: shippingAddress,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// 3. Attach the items.
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// 4. Decrement stock per purchased line.
	for i, product := range products {
		newStock := product.Stock - items[i].Quantity
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("stock", newStock).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.Items = items
	return &order, nil
}

// RecentOrders returns the latest orders with their items, for the admin panel.
func RecentOrders(db *gorm.DB, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, username, email")
	}).Order("created_at desc").Limit(limit).Find(&orders).Error
	return orders, err
}
