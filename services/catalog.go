package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cravecart-api/imagefetch"
	"cravecart-api/models"
	"cravecart-api/repository"

	"github.com/shopspring/decimal"
)

// Caller is the authenticated identity behind a request
type Caller struct {
	ID   uint
	Role models.UserRole
}

// ImageStore turns a link into a locally hosted image path
type ImageStore interface {
	Save(ctx context.Context, link, folder string) (string, error)
}

// RestaurantInput carries create and partial update fields; nil means unset
type RestaurantInput struct {
	Name        *string
	Description *string
	Address     *string
	Image       *string
	ImageURL    *string
	IsActive    *bool
}

type FoodInput struct {
	RestaurantID uint
	Name         *string
	Price        *decimal.Decimal
	Category     *string
	Image        *string
	ImageURL     *string
	IsAvailable  *bool
}

type CatalogService struct {
	restaurants *repository.RestaurantRepository
	foods       *repository.FoodRepository
	images      ImageStore
	logger      *slog.Logger
}

func NewCatalogService(restaurants *repository.RestaurantRepository, foods *repository.FoodRepository, images ImageStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{restaurants: restaurants, foods: foods, images: images, logger: logger}
}

// ListRestaurants scopes the listing by caller: anonymous and customers see
// active restaurants, owners their own, admins everything.
func (s *CatalogService) ListRestaurants(ctx context.Context, caller *Caller) ([]models.Restaurant, error) {
	filter := repository.RestaurantFilter{ActiveOnly: true}
	if caller != nil {
		switch caller.Role {
		case models.RoleAdmin:
			filter = repository.RestaurantFilter{}
		case models.RoleOwner:
			filter = repository.RestaurantFilter{OwnerID: caller.ID}
		}
	}
	restaurants, err := s.restaurants.List(ctx, filter)
	if err != nil {
		return nil, internal("list restaurants", err)
	}
	return restaurants, nil
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	r, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find restaurant", err)
	}
	if r == nil {
		return nil, notFound("Restaurant not found")
	}
	return r, nil
}

const missingFieldsMessage = "All fields including image are required"

// CreateRestaurant validates the text fields before fetching any image so a
// rejected request leaves nothing under the upload directory.
func (s *CatalogService) CreateRestaurant(ctx context.Context, caller Caller, in RestaurantInput) (*models.Restaurant, error) {
	name, desc, addr := trimmed(in.Name), trimmed(in.Description), trimmed(in.Address)
	if name == "" || desc == "" || addr == "" {
		return nil, invalidInput(missingFieldsMessage)
	}
	image, err := s.resolveImage(ctx, in.Image, in.ImageURL, "restaurants")
	if err != nil {
		return nil, err
	}
	if image == "" {
		return nil, invalidInput(missingFieldsMessage)
	}

	r := &models.Restaurant{
		OwnerID:     caller.ID,
		Name:        name,
		Description: desc,
		Address:     addr,
		Image:       image,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.restaurants.Create(ctx, r); err != nil {
		return nil, internal("create restaurant", err)
	}
	s.logger.InfoContext(ctx, "restaurant created", "restaurant_id", r.ID, "owner_id", caller.ID)
	return r, nil
}

func (s *CatalogService) UpdateRestaurant(ctx context.Context, caller Caller, id uint, in RestaurantInput) (*models.Restaurant, error) {
	r, err := s.ownedRestaurant(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if v := trimmed(in.Name); v != "" {
		fields["name"] = v
	}
	if v := trimmed(in.Description); v != "" {
		fields["description"] = v
	}
	if v := trimmed(in.Address); v != "" {
		fields["address"] = v
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.Image != nil || in.ImageURL != nil {
		image, err := s.resolveImage(ctx, in.Image, in.ImageURL, "restaurants")
		if err != nil {
			return nil, err
		}
		if image != "" {
			fields["image"] = image
		}
	}

	if err := s.restaurants.Update(ctx, r, fields); err != nil {
		return nil, internal("update restaurant", err)
	}
	return r, nil
}

// DeleteRestaurant removes the restaurant and its menu
func (s *CatalogService) DeleteRestaurant(ctx context.Context, caller Caller, id uint) error {
	if _, err := s.ownedRestaurant(ctx, caller, id); err != nil {
		return err
	}
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return internal("delete restaurant", err)
	}
	s.logger.InfoContext(ctx, "restaurant deleted", "restaurant_id", id, "by", caller.ID)
	return nil
}

// ListFoods returns the available menu of a restaurant
func (s *CatalogService) ListFoods(ctx context.Context, restaurantID uint) ([]models.FoodItem, error) {
	if _, err := s.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	foods, err := s.foods.ListAvailableByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, internal("list foods", err)
	}
	return foods, nil
}

func (s *CatalogService) CreateFood(ctx context.Context, caller Caller, in FoodInput) (*models.FoodItem, error) {
	if _, err := s.ownedRestaurant(ctx, caller, in.RestaurantID); err != nil {
		return nil, err
	}
	if in.Price == nil || !in.Price.IsPositive() {
		return nil, invalidInput("Invalid price")
	}
	name, category := trimmed(in.Name), trimmed(in.Category)
	if name == "" || category == "" {
		return nil, invalidInput(missingFieldsMessage)
	}
	image, err := s.resolveImage(ctx, in.Image, in.ImageURL, "foods")
	if err != nil {
		return nil, err
	}
	if image == "" {
		return nil, invalidInput(missingFieldsMessage)
	}

	food := &models.FoodItem{
		RestaurantID: in.RestaurantID,
		Name:         name,
		Price:        *in.Price,
		Category:     category,
		Image:        image,
		IsAvailable:  in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.foods.Create(ctx, food); err != nil {
		return nil, internal("create food", err)
	}
	return food, nil
}

func (s *CatalogService) UpdateFood(ctx context.Context, caller Caller, id uint, in FoodInput) (*models.FoodItem, error) {
	food, err := s.ownedFood(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if v := trimmed(in.Name); v != "" {
		fields["name"] = v
	}
	if v := trimmed(in.Category); v != "" {
		fields["category"] = v
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, invalidInput("Invalid price")
		}
		fields["price"] = *in.Price
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if in.Image != nil || in.ImageURL != nil {
		image, err := s.resolveImage(ctx, in.Image, in.ImageURL, "foods")
		if err != nil {
			return nil, err
		}
		if image != "" {
			fields["image"] = image
		}
	}

	if err := s.foods.Update(ctx, food, fields); err != nil {
		return nil, internal("update food", err)
	}
	return food, nil
}

func (s *CatalogService) DeleteFood(ctx context.Context, caller Caller, id uint) error {
	if _, err := s.ownedFood(ctx, caller, id); err != nil {
		return err
	}
	if err := s.foods.Delete(ctx, id); err != nil {
		return internal("delete food", err)
	}
	return nil
}

// ownedRestaurant loads a restaurant the caller may manage
func (s *CatalogService) ownedRestaurant(ctx context.Context, caller Caller, id uint) (*models.Restaurant, error) {
	r, err := s.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleAdmin && r.OwnerID != caller.ID {
		return nil, forbidden("Not authorized to manage this restaurant")
	}
	return r, nil
}

func (s *CatalogService) ownedFood(ctx context.Context, caller Caller, id uint) (*models.FoodItem, error) {
	food, err := s.foods.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find food", err)
	}
	if food == nil {
		return nil, notFound("Food item not found")
	}
	if _, err := s.ownedRestaurant(ctx, caller, food.RestaurantID); err != nil {
		return nil, err
	}
	return food, nil
}

// resolveImage prefers an uploaded link over a direct image reference
func (s *CatalogService) resolveImage(ctx context.Context, image, link *string, folder string) (string, error) {
	if l := trimmed(link); l != "" {
		path, err := s.images.Save(ctx, l, folder)
		var se *imagefetch.SourceError
		if errors.As(err, &se) {
			return "", invalidInput(se.Message)
		}
		if err != nil {
			return "", internal("fetch image", err)
		}
		return path, nil
	}
	return trimmed(image), nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
