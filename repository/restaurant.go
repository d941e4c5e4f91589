package repository

import (
	"context"

	"cravecart-api/models"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// RestaurantFilter narrows List; zero values mean no restriction
type RestaurantFilter struct {
	ActiveOnly bool
	OwnerID    uint
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &restaurant, nil
}

func (r *RestaurantRepository) List(ctx context.Context, f RestaurantFilter) ([]models.Restaurant, error) {
	query := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if f.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if f.OwnerID != 0 {
		query = query.Where("owner_id = ?", f.OwnerID)
	}
	restaurants := []models.Restaurant{}
	err := query.Order("id ASC").Find(&restaurants).Error
	return restaurants, err
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

// Update writes only the given columns and reloads the record
func (r *RestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant, fields map[string]any) error {
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(restaurant).Updates(fields).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).First(restaurant, restaurant.ID).Error
}

// Delete removes the restaurant together with its menu
func (r *RestaurantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.FoodItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Restaurant{}, id).Error
	})
}
