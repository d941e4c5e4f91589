package handlers

import (
	"log/slog"
	"net/http"

	"cravecart-api/pkg/resp"
	"cravecart-api/services"

	"github.com/gin-gonic/gin"
)

// RestaurantRequest serves create and partial update. Image is used as is;
// ImageURL is fetched and re-hosted under /uploads.
type RestaurantRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Image       *string `json:"image"`
	ImageURL    *string `json:"imageUrl"`
	IsActive    *bool   `json:"isActive"`
}

func (r RestaurantRequest) input() services.RestaurantInput {
	return services.RestaurantInput{
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Image:       r.Image,
		ImageURL:    r.ImageURL,
		IsActive:    r.IsActive,
	}
}

type CatalogHandler struct {
	catalog *services.CatalogService
	logger  *slog.Logger
}

func NewCatalogHandler(catalog *services.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ListRestaurants is public; a bearer token widens the listing for staff
func (h *CatalogHandler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.catalog.ListRestaurants(c.Request.Context(), optionalCaller(c))
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, restaurants)
}

func (h *CatalogHandler) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := h.catalog.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, r)
}

func (h *CatalogHandler) CreateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.catalog.CreateRestaurant(c.Request.Context(), caller(c), req.input())
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.Created(c, r)
}

func (h *CatalogHandler) UpdateRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RestaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.catalog.UpdateRestaurant(c.Request.Context(), caller(c), id, req.input())
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, r)
}

func (h *CatalogHandler) DeleteRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteRestaurant(c.Request.Context(), caller(c), id); err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.Message(c, http.StatusOK, "Restaurant removed")
}
