package dto

import "github.com/shopspring/decimal"

// CreateProductRequest creates a product, capitalizing its opening stock.
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	SKU           string          `json:"sku" binding:"max=64"`
	CostPrice     decimal.Decimal `json:"costPrice" binding:"gte=0"`
	SalePrice     decimal.Decimal `json:"salePrice" binding:"gte=0"`
	StockQuantity int64           `json:"stockQuantity" binding:"min=0"`
}

// UpdateStockRequest sets a product's stock quantity, posting the adjustment.
type UpdateStockRequest struct {
	StockQuantity *int64 `json:"stockQuantity" binding:"required,min=0"`
}
