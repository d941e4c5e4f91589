package handlers

import (
	"net/http"

	"cravecart-api/pkg/resp"
	"cravecart-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type FoodRequest struct {
	RestaurantID uint             `json:"restaurantId"`
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Category     *string          `json:"category"`
	Image        *string          `json:"image"`
	ImageURL     *string          `json:"imageUrl"`
	IsAvailable  *bool            `json:"isAvailable"`
}

func (r FoodRequest) input() services.FoodInput {
	return services.FoodInput{
		RestaurantID: r.RestaurantID,
		Name:         r.Name,
		Price:        r.Price,
		Category:     r.Category,
		Image:        r.Image,
		ImageURL:     r.ImageURL,
		IsAvailable:  r.IsAvailable,
	}
}

// ListFoods returns the available menu of a restaurant
func (h *CatalogHandler) ListFoods(c *gin.Context) {
	id, ok := parseID(c, "restaurantId")
	if !ok {
		return
	}
	foods, err := h.catalog.ListFoods(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, foods)
}

func (h *CatalogHandler) CreateFood(c *gin.Context) {
	var req FoodRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.RestaurantID == 0 {
		resp.BadRequest(c, "restaurantId is required")
		return
	}
	food, err := h.catalog.CreateFood(c.Request.Context(), caller(c), req.input())
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.Created(c, food)
}

func (h *CatalogHandler) UpdateFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req FoodRequest
	if !bindJSON(c, &req) {
		return
	}
	food, err := h.catalog.UpdateFood(c.Request.Context(), caller(c), id, req.input())
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, food)
}

func (h *CatalogHandler) DeleteFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteFood(c.Request.Context(), caller(c), id); err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.Message(c, http.StatusOK, "Food item removed")
}
