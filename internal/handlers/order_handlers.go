package handlers

import (
	"net/http"

	"restaurant_pos_backend/internal/middleware"
	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/metrics"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
	metrics      *metrics.Metrics
}

// NewOrderHandler creates a new OrderHandler. m may be nil.
func NewOrderHandler(orderService services.OrderService, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{orderService: orderService, metrics: m}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder places an order for the authenticated waiter.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	waiterID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated", ""))
		return
	}
	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), waiterID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create order")
		return
	}
	h.metrics.OrderCreated(len(order.OrderItems))
	h.respondOrder(c, http.StatusCreated, order)
}

// GetOrders lists orders newest first, filtered by ?status=, ?tableId= and ?waiterId=.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	tableID, err := utils.ParseOptionalInt64(c.Query("tableId"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid tableId format")
		return
	}
	waiterID, err := utils.ParseOptionalInt64(c.Query("waiterId"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid waiterId format")
		return
	}
	filters.TableID = tableID
	filters.WaiterID = waiterID
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}

	orders, err := h.orderService.List(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders")
		return
	}
	for i := range orders {
		decorateOrder(c, &orders[i])
	}
	utils.RespondWithData(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch order")
		return
	}
	h.respondOrder(c, http.StatusOK, order)
}

// UpdateOrder changes status and/or notes.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update order")
		return
	}
	if req.Status != nil {
		h.metrics.OrderStatusChanged(*req.Status)
	}
	h.respondOrder(c, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update order status")
		return
	}
	h.metrics.OrderStatusChanged(req.Status)
	h.respondOrder(c, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderItemStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateItemStatus(c.Request.Context(), id, itemID, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update order item status")
		return
	}
	h.respondOrder(c, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete order")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Order deleted successfully")
}

func (h *OrderHandler) respondOrder(c *gin.Context, status int, order *models.Order) {
	decorateOrder(c, order)
	utils.RespondWithData(c, status, order)
}

func decorateOrder(c *gin.Context, order *models.Order) {
	for i := range order.OrderItems {
		withImageURL(c, order.OrderItems[i].Product)
	}
}
