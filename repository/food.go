package repository

import (
	"context"

	"cravecart-api/models"

	"gorm.io/gorm"
)

// FoodRepository is the catalog accessor for food items
type FoodRepository struct {
	db *gorm.DB
}

func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

func (r *FoodRepository) FindByID(ctx context.Context, id uint) (*models.FoodItem, error) {
	var food models.FoodItem
	if err := r.db.WithContext(ctx).First(&food, id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &food, nil
}

// FindByIDs loads every referenced food item in one query, keyed by id.
// Unknown ids are simply absent from the result.
func (r *FoodRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.FoodItem, error) {
	out := make(map[uint]models.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var foods []models.FoodItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&foods).Error; err != nil {
		return nil, err
	}
	for _, f := range foods {
		out[f.ID] = f
	}
	return out, nil
}

func (r *FoodRepository) ListAvailableByRestaurant(ctx context.Context, restaurantID uint) ([]models.FoodItem, error) {
	foods := []models.FoodItem{}
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_available = ?", restaurantID, true).
		Order("id ASC").
		Find(&foods).Error
	return foods, err
}

func (r *FoodRepository) Create(ctx context.Context, food *models.FoodItem) error {
	return r.db.WithContext(ctx).Create(food).Error
}

// Update writes only the given columns and reloads the record
func (r *FoodRepository) Update(ctx context.Context, food *models.FoodItem, fields map[string]any) error {
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(food).Updates(fields).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).First(food, food.ID).Error
}

func (r *FoodRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FoodItem{}, id).Error
}
