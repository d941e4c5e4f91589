package repository

import (
	"context"
	"time"

	"cravecart-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// WithTx returns a repository bound to an open transaction
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// FindByUser loads the user's cart with its lines in insertion order
func (r *CartRepository) FindByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// GetOrCreate returns the user's cart, creating an empty one on first access
func (r *CartRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := r.FindByUser(ctx, userID)
	if err != nil || cart != nil {
		return cart, err
	}
	cart = &models.Cart{UserID: userID, TotalAmount: decimal.Zero}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		// lost the race on the user_id unique index
		existing, ferr := r.FindByUser(ctx, userID)
		if ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}

// Save replaces the stored lines and total with the in-memory ones. The write
// only applies if the stored version still equals cart.Version; otherwise
// ErrStaleWrite is returned and nothing changes. On success cart.Version is
// advanced to the stored value.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]any{
				"total_amount": cart.TotalAmount,
				"version":      gorm.Expr("version + 1"),
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleWrite
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		items := make([]models.CartItem, len(cart.Items))
		for i, it := range cart.Items {
			items[i] = models.CartItem{CartID: cart.ID, FoodID: it.FoodID, Quantity: it.Quantity, Position: i}
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return err
	}
	cart.Version++
	cart.UpdatedAt = now
	return nil
}
