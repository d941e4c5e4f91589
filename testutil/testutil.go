// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"cravecart-api/config"
	"cravecart-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a fresh migrated in-memory database closed at test cleanup
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateUser inserts a user whose password is "password123"
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Name: email, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateRestaurant(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{OwnerID: ownerID, Name: name, IsActive: true}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateFood inserts an available food item at the given price
func CreateFood(t *testing.T, db *gorm.DB, restaurantID uint, name, price string) *models.FoodItem {
	t.Helper()
	f := &models.FoodItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(f).Error)
	return f
}
