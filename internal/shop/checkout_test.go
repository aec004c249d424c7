package shop

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"boutique_backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := models.Product{
		Name:        name,
		Description: name,
		Price:       decimal.NewFromFloat(price),
		Category:    "Test",
		Stock:       stock,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func reload(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return &product
}

func TestPlaceOrderInsufficientStockIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	p1 := seedProduct(t, db, "P1", 10, 5)
	p2 := seedProduct(t, db, "P2", 20, 0)

	cart := Cart{p1.ID: 2, p2.ID: 1}

	_, err := PlaceOrder(db, 1, cart, "1 rue du Test")
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "P2", stockErr.ProductName)

	// Nothing was written and nothing decremented.
	assert.Equal(t, 5, reload(t, db, p1.ID).Stock)
	assert.Equal(t, 0, reload(t, db, p2.ID).Stock)

	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	// The cart itself is untouched.
	assert.Equal(t, Cart{p1.ID: 2, p2.ID: 1}, cart)
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := newTestDB(t)
	p1 := seedProduct(t, db, "P1", 10, 5)
	p2 := seedProduct(t, db, "P2", 20, 3)

	cart := Cart{p1.ID: 2, p2.ID: 1}

	order, err := PlaceOrder(db, 1, cart, "1 rue du Test")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.Number)
	assert.True(t, decimal.NewFromInt(40).Equal(order.TotalAmount),
		"total = 2×10 + 1×20, got %s", order.TotalAmount)
	assert.Len(t, order.Items, 2)

	assert.Equal(t, 3, reload(t, db, p1.ID).Stock)
	assert.Equal(t, 2, reload(t, db, p2.ID).Stock)
}

func TestPlaceOrderSnapshotsPrices(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "P1", 10, 5)

	order, err := PlaceOrder(db, 1, Cart{p.ID: 1}, "1 rue du Test")
	require.NoError(t, err)

	// A later price change leaves the order item untouched.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("price", decimal.NewFromInt(99)).Error)

	var item models.OrderItem
	require.NoError(t, db.First(&item, "order_id = ?", order.ID).Error)
	assert.True(t, decimal.NewFromInt(10).Equal(item.Price))
	assert.Equal(t, "P1", item.ProductName)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "P1", 10, 5)

	var validation *ValidationError

	_, err := PlaceOrder(db, 1, Cart{p.ID: 1}, "   ")
	require.ErrorAs(t, err, &validation)

	_, err = PlaceOrder(db, 1, Cart{}, "1 rue du Test")
	require.ErrorAs(t, err, &validation)
}

func TestStockNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "P1", 10, 3)

	// Two units succeed, the next two-unit attempt must fail outright.
	_, err := PlaceOrder(db, 1, Cart{p.ID: 2}, "1 rue du Test")
	require.NoError(t, err)

	_, err = PlaceOrder(db, 1, Cart{p.ID: 2}, "1 rue du Test")
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	stock := reload(t, db, p.ID).Stock
	assert.Equal(t, 1, stock)
	assert.GreaterOrEqual(t, stock, 0)
}
