package domain

// Permission is a capability granted to a user within their company.
type Permission string

const (
	PermLedgerRead      Permission = "ledger:read"
	PermLedgerWrite     Permission = "ledger:write"
	PermInventoryManage Permission = "inventory:manage"
	PermPurchasesManage Permission = "purchases:manage"
	PermSalesManage     Permission = "sales:manage"
	PermPayrollManage   Permission = "payroll:manage"
	PermCompanyAdmin    Permission = "company:admin" // implies every other permission
)

// ActingUser is the already-authenticated caller of a core operation.
type ActingUser struct {
	UserID      string
	CompanyID   string
	Permissions []Permission
}

// Can reports whether the user holds p, directly or through PermCompanyAdmin.
func (u ActingUser) Can(p Permission) bool {
	for _, granted := range u.Permissions {
		if granted == p || granted == PermCompanyAdmin {
			return true
		}
	}
	return false
}

// IsValid reports whether p is one of the known permissions.
func (p Permission) IsValid() bool {
	switch p {
	case PermLedgerRead, PermLedgerWrite, PermInventoryManage, PermPurchasesManage,
		PermSalesManage, PermPayrollManage, PermCompanyAdmin:
		return true
	}
	return false
}
