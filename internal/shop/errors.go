package shop

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("product not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsufficientStockError is returned when a requested quantity exceeds the
// available stock of a product. The whole request is rejected, never
// partially fulfilled.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuffisant pour %s", e.ProductName)
}
