package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// RegisterInventoryRoutes registers product routes.
func RegisterInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := &inventoryHandler{inventoryService: inventoryService}

	products := rg.Group("/products")
	{
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.PUT("/:productID/stock", h.updateStock)
		products.DELETE("/:productID", h.deleteProduct)
	}
}

// createProduct godoc
// @Summary Create a product
// @Description Creates a product and capitalizes its opening stock at cost
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 402 {object} map[string]string "Subscription expired or limit reached"
// @Security BearerAuth
// @Router /products [post]
func (h *inventoryHandler) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce  json
// @Success 200 {array} domain.Product
// @Security BearerAuth
// @Router /products [get]
func (h *inventoryHandler) listProducts(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	products, err := h.inventoryService.ListProducts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// updateStock godoc
// @Summary Adjust stock
// @Description Sets the stock quantity, posting the value difference against Stock Adjustments
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   stock body dto.UpdateStockRequest true "New quantity"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /products/{productID}/stock [put]
func (h *inventoryHandler) updateStock(c *gin.Context) {
	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	product, err := h.inventoryService.UpdateStock(c.Request.Context(), actor, c.Param("productID"), req)
	if err != nil {
		respondError(c, err, "Failed to update stock")
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct godoc
// @Summary Delete a product
// @Description Soft-deletes the product and reverses its stock postings
// @Tags products
// @Param   productID path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /products/{productID} [delete]
func (h *inventoryHandler) deleteProduct(c *gin.Context) {
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteProduct(c.Request.Context(), actor, c.Param("productID")); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}
