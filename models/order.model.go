package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "pending"

type Order struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number string `gorm:"size:36;uniqueIndex;not null" json:"number"`
	UserID uint   `gorm:"index;not null" json:"user_id"`

	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          string          `gorm:"size:20;default:'pending'" json:"status"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User  User        `gorm:"foreignKey:UserID" json:"user"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem carries the unit price read at purchase time, not a live
// reference to the current product price.
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index;not null" json:"order_id"`
	ProductID uint `gorm:"not null" json:"product_id"`

	ProductName string          `gorm:"size:100;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
