package domain

import "github.com/shopspring/decimal"

// Product is a stocked item. Its stock value is carried on the Stock account.
type Product struct {
	ProductID     string          `json:"productID"`
	CompanyID     string          `json:"companyID"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	StockQuantity int64           `json:"stockQuantity"`
	TransactionID *int64          `json:"transactionID,omitempty"` // initial stock and adjustments
	IsDeleted     bool            `json:"isDeleted"`
	AuditFields
}

// StockValue is quantity times cost price.
func (p Product) StockValue(quantity int64) decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(quantity))
}
