package handlers

import (
	"log/slog"

	"cravecart-api/middleware"
	"cravecart-api/models"
	"cravecart-api/pkg/resp"
	"cravecart-api/services"
	"cravecart-api/statemachine"
	"cravecart-api/ws"

	"github.com/gin-gonic/gin"
)

type CreateOrderRequest struct {
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
	PaymentMethod   string `json:"paymentMethod" binding:"paymentmethod"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
	Note   string `json:"note"`
}

type OrderHandler struct {
	orders *services.OrderService
	hub    *ws.OrderHub
	logger *slog.Logger
}

func NewOrderHandler(orders *services.OrderService, hub *ws.OrderHub, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, hub: hub, logger: logger}
}

// Create checks out the caller's cart
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateOrderInput{
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.Created(c, order)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, orders)
}

// List returns every order, optionally filtered by ?status=
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context(), models.OrderStatus(c.Query("status")))
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	who := caller(c)
	order, err := h.orders.Get(c.Request.Context(), id, who.ID, who.Role)
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, middleware.GetUserID(c), services.UpdateStatusInput{
		Status: models.OrderStatus(req.Status),
		Note:   req.Note,
	})
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		resp.Error(c, h.logger, err)
		return
	}
	resp.OK(c, order)
}

// StateMachine documents the order lifecycle
func (h *OrderHandler) StateMachine(c *gin.Context) {
	resp.OK(c, gin.H{
		"statuses":    models.AllStatuses,
		"initial":     models.StatusPending,
		"terminal":    []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"transitions": statemachine.GetAllTransitions(),
	})
}

// Stream upgrades to a websocket carrying the caller's order events
func (h *OrderHandler) Stream(c *gin.Context) {
	h.hub.Handle(c, middleware.GetUserID(c), isStaff(c))
}
