package config

import (
	"log"

	"boutique_backend/models"
	"boutique_backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedAdmin creates the default administrator account when missing.
func SeedAdmin(db *gorm.DB) {
	var existing models.User
	if err := db.Where("username = ?", "admin").First(&existing).Error; err == nil {
		return
	} else if err != gorm.ErrRecordNotFound {
		log.Printf("Failed to look up admin user: %v", err)
		return
	}

	password, _ := utils.HashPassword("admin123")
	admin := models.User{
		Username: "admin",
		Email:    "admin@boutique.com",
		Password: password,
		IsAdmin:  true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Printf("Admin user seeded (ID: %d)", admin.ID)
}

// SeedProducts fills an empty catalog with sample products.
func SeedProducts(db *gorm.DB) {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return
	}

	log.Println("🌱 Seeding products...")

	products := []models.Product{
		{
			Name:        "Laptop Gaming",
			Description: "Ordinateur portable gaming haute performance",
			Price:       decimal.NewFromFloat(1299.99),
			Category:    "Informatique",
			Stock:       5,
			IsActive:    true,
			ImageURL:    "https://via.placeholder.com/300x200?text=Laptop",
		},
		{
			Name:        "Smartphone",
			Description: "Smartphone dernière génération",
			Price:       decimal.NewFromFloat(699.99),
			Category:    "Mobile",
			Stock:       10,
			IsActive:    true,
			ImageURL:    "https://via.placeholder.com/300x200?text=Smartphone",
		},
		{
			Name:        "Casque Audio",
			Description: "Casque audio professionnel",
			Price:       decimal.NewFromFloat(199.99),
			Category:    "Audio",
			Stock:       15,
			IsActive:    true,
			ImageURL:    "https://via.placeholder.com/300x200?text=Casque",
		},
		{
			Name:        "Montre Connectée",
			Description: "Montre intelligente avec capteurs",
			Price:       decimal.NewFromFloat(299.99),
			Category:    "Wearable",
			Stock:       8,
			IsActive:    true,
			ImageURL:    "https://via.placeholder.com/300x200?text=Montre",
		},
	}

	for _, product := range products {
		if err := db.Create(&product).Error; err != nil {
			log.Printf("Failed to seed product %s: %v", product.Name, err)
		}
	}

	log.Println("✅ Seeding complete.")
}
