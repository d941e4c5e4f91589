package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cravecart-api/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account from ADMIN_EMAIL/ADMIN_PASSWORD
func SeedAdmin(db *gorm.DB, email, password string, logger *slog.Logger) (*models.User, error) {
	if email == "" || password == "" {
		logger.Warn("skip seeding admin: ADMIN_EMAIL or ADMIN_PASSWORD missing")
		return nil, nil
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logger.Info("admin already exists", "email", email)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Name:         "System Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	logger.Info("admin seeded", "email", email)
	return &admin, nil
}

type seedFood struct {
	name     string
	price    int64
	category string
}

type seedRestaurant struct {
	name, description, address, image string
	foods                             []seedFood
}

const seedFoodImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c"

var demoCatalog = []seedRestaurant{
	{
		name: "Delhi Spice Hub", description: "Authentic North Indian Cuisine",
		address: "Connaught Place, New Delhi", image: "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4",
		foods: []seedFood{
			{"Butter Chicken", 349, "Main Course"},
			{"Paneer Butter Masala", 299, "Main Course"},
			{"Dal Makhani", 249, "Main Course"},
			{"Garlic Naan", 45, "Breads"},
			{"Chicken Biryani", 329, "Main Course"},
		},
	},
	{
		name: "Mumbai Street Eats", description: "Famous Mumbai Street Food",
		address: "Bandra West, Mumbai", image: "https://images.unsplash.com/photo-1555396273-367ea4eb4db5",
		foods: []seedFood{
			{"Vada Pav", 30, "Snacks"},
			{"Pav Bhaji", 120, "Snacks"},
			{"Pani Puri", 50, "Snacks"},
			{"Bombay Sandwich", 110, "Snacks"},
		},
	},
	{
		name: "Chennai Dosa Corner", description: "Traditional South Indian Dishes",
		address: "T Nagar, Chennai", image: "https://images.unsplash.com/photo-1600891964092-4316c288032e",
		foods: []seedFood{
			{"Masala Dosa", 120, "Main Course"},
			{"Idli Sambar", 70, "Main Course"},
			{"Medu Vada", 60, "Snacks"},
			{"Filter Coffee", 40, "Beverages"},
		},
	},
}

// SeedCatalog replaces restaurants and foods with the demo catalog, owned by owner
func SeedCatalog(db *gorm.DB, owner *models.User, logger *slog.Logger) error {
	if owner == nil {
		return errors.New("seed catalog: no admin or owner account to own the restaurants")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.FoodItem{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Restaurant{}).Error; err != nil {
			return err
		}

		for _, r := range demoCatalog {
			restaurant := models.Restaurant{
				OwnerID:     owner.ID,
				Name:        r.name,
				Description: r.description,
				Address:     r.address,
				Image:       r.image,
				IsActive:    true,
			}
			if err := tx.Create(&restaurant).Error; err != nil {
				return err
			}

			foods := make([]models.FoodItem, 0, len(r.foods))
			for _, f := range r.foods {
				foods = append(foods, models.FoodItem{
					RestaurantID: restaurant.ID,
					Name:         f.name,
					Price:        decimal.NewFromInt(f.price),
					Category:     f.category,
					Image:        seedFoodImage,
					IsAvailable:  true,
				})
			}
			if err := tx.Create(&foods).Error; err != nil {
				return err
			}
			logger.Info("restaurant seeded", "name", restaurant.Name, "foods", len(foods))
		}
		return nil
	})
}
