package handlers

import (
	"log/slog"
	"net/http"

	"cravecart-api/middleware"
	"cravecart-api/pkg/resp"
	"cravecart-api/services"

	"github.com/gin-gonic/gin"
)

type AddToCartRequest struct {
	FoodID   uint `json:"foodId" binding:"required"`
	Quantity *int `json:"quantity"`
}

type CartHandler struct {
	carts  *services.CartService
	logger *slog.Logger
}

func NewCartHandler(carts *services.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, cart)
}

func (h *CartHandler) Add(c *gin.Context) {
	var req AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), middleware.GetUserID(c), req.FoodID, req.Quantity)
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, cart)
}

func (h *CartHandler) Remove(c *gin.Context) {
	foodID, ok := parseID(c, "foodId")
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetUserID(c), foodID)
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.Message(c, http.StatusOK, "Cart cleared")
}
