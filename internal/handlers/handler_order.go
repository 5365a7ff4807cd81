package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// orderHandler serves one order kind; purchase and sales orders share the same routes.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
	kind         domain.OrderKind
}

// RegisterOrderRoutes registers /purchase-orders and /sales-orders.
func RegisterOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	for path, kind := range map[string]domain.OrderKind{
		"/purchase-orders": domain.PurchaseOrder,
		"/sales-orders":    domain.SalesOrder,
	} {
		h := &orderHandler{orderService: orderService, kind: kind}
		orders := rg.Group(path)
		orders.POST("", h.createOrder)
		orders.PATCH("/:orderID/status", h.updateStatus)
	}
}

// createOrder godoc
// @Summary Create an order
// @Description Creates a purchase or sales order in DRAFT. Nothing is posted until it is invoiced.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Party or product not found"
// @Security BearerAuth
// @Router /purchase-orders [post]
// @Router /sales-orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actor, h.kind, req)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// updateStatus godoc
// @Summary Move an order to a new status
// @Description Posts, settles or reverses the order's journal lines according to the transition
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   status body dto.UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string "Invalid transition or insufficient stock"
// @Failure 402 {object} map[string]string "Subscription expired or limit reached"
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /purchase-orders/{orderID}/status [patch]
// @Router /sales-orders/{orderID}/status [patch]
func (h *orderHandler) updateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), actor, h.kind, c.Param("orderID"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Order status updated",
		slog.String("order_id", order.OrderID),
		slog.String("kind", string(h.kind)),
		slog.String("status", string(order.Status)),
	)
	c.JSON(http.StatusOK, order)
}
