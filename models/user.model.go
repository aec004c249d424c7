package models

import (
	"time"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login information
	Username string `gorm:"unique;not null;size:80" json:"username"`
	Email    string `gorm:"unique;not null;size:120" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Role & status
	IsAdmin bool `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time `json:"created_at"`
}
