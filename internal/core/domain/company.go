package domain

import "fmt"

// Company is a tenant. Every account, journal line and business document belongs to one.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	AuditFields
}

// Well-known account titles that posting adapters resolve by name.
const (
	TitleCash               = "Cash"
	TitleStock              = "Stock"
	TitleOwnersCapital      = "Owner's Capital"
	TitleAccountsPayable    = "Accounts Payable"
	TitleAccountsReceivable = "Accounts Receivable"
	TitleSalesRevenue       = "Sales Revenue"
	TitleCostOfGoodsSold    = "Cost of Goods Sold"
	TitlePurchaseDiscounts  = "Purchase Discounts"
	TitleSalesDiscounts     = "Sales Discounts"
	TitleSalariesExpense    = "Salaries Expense"
	TitleSalariesPayable    = "Salaries Payable"
	TitleStockAdjustments   = "Stock Adjustments"
)

// ChartEntry describes an account seeded at company onboarding.
type ChartEntry struct {
	Title   string
	Type    AccountType
	SubType string
	Side    Side
}

// DefaultChart is the chart of accounts every company starts with.
var DefaultChart = []ChartEntry{
	{TitleCash, Asset, "Current Asset", Debit},
	{TitleStock, Asset, "Inventory", Debit},
	{TitleAccountsReceivable, Asset, "Current Asset", Debit},
	{TitleAccountsPayable, Liability, "Current Liability", Credit},
	{TitleSalariesPayable, Liability, "Current Liability", Credit},
	{TitleOwnersCapital, Equity, "Capital", Credit},
	{TitleSalesRevenue, Income, "Operating Revenue", Credit},
	{TitlePurchaseDiscounts, Income, "Other Income", Credit},
	{TitleCostOfGoodsSold, Expense, "Cost of Sales", Debit},
	{TitleSalesDiscounts, Expense, "Sales Deduction", Debit},
	{TitleSalariesExpense, Expense, "Operating Expense", Debit},
	{TitleStockAdjustments, Expense, "Operating Expense", Debit},
}

// PartyKind distinguishes vendors, customers and employees.
type PartyKind string

const (
	PartyVendor   PartyKind = "VENDOR"
	PartyCustomer PartyKind = "CUSTOMER"
	PartyEmployee PartyKind = "EMPLOYEE"
)

func (k PartyKind) IsValid() bool {
	return k == PartyVendor || k == PartyCustomer || k == PartyEmployee
}

// Party is a vendor, customer or employee with its own sub-account pair.
type Party struct {
	PartyID   string    `json:"partyID"`
	CompanyID string    `json:"companyID"`
	Kind      PartyKind `json:"kind"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"isDeleted"`
	AuditFields
}

// SubAccountTitle is the party-specific payable or receivable account.
func (p Party) SubAccountTitle() string {
	switch p.Kind {
	case PartyVendor:
		return fmt.Sprintf("%s Payable", p.Name)
	case PartyCustomer:
		return fmt.Sprintf("%s Receivable", p.Name)
	default:
		return fmt.Sprintf("%s Salary Payable", p.Name)
	}
}

// ContraAccountTitle is the contra account that mirrors SubAccountTitle.
func (p Party) ContraAccountTitle() string {
	return p.SubAccountTitle() + " Contra"
}

// SubAccountEntries returns the sub/contra pair created when the party is onboarded.
func (p Party) SubAccountEntries() []ChartEntry {
	switch p.Kind {
	case PartyCustomer:
		return []ChartEntry{
			{p.SubAccountTitle(), Asset, "Customer Receivable", Debit},
			{p.ContraAccountTitle(), Contra, "Customer Receivable Contra", Credit},
		}
	case PartyVendor:
		return []ChartEntry{
			{p.SubAccountTitle(), Liability, "Vendor Payable", Credit},
			{p.ContraAccountTitle(), Contra, "Vendor Payable Contra", Debit},
		}
	default:
		return []ChartEntry{
			{p.SubAccountTitle(), Liability, "Employee Payable", Credit},
			{p.ContraAccountTitle(), Contra, "Employee Payable Contra", Debit},
		}
	}
}
