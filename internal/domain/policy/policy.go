// Package policy traduce rol -> operaciones permitidas. Es la única fuente de verdad
// de autorización; la capa HTTP solo la consulta.
package policy

import "github.com/jhoicas/stockpro/internal/domain/entity"

// Operation identifica una capacidad protegida de la API.
type Operation string

const (
	CompanyManage  Operation = "company.manage"
	UserManage     Operation = "user.manage"
	CategoryRead   Operation = "category.read"
	CategoryManage Operation = "category.manage"
	SupplierRead   Operation = "supplier.read"
	SupplierManage Operation = "supplier.manage"
	ClientRead     Operation = "client.read"
	ClientManage   Operation = "client.manage"
	POSRead        Operation = "pos.read"
	POSManage      Operation = "pos.manage"
	ProductRead    Operation = "product.read"
	ProductManage  Operation = "product.manage"
	StockAdjust    Operation = "stock.adjust"
	MovementRead   Operation = "movement.read"
	SaleCreate     Operation = "sale.create"
	SaleRead       Operation = "sale.read"
	SaleCancel     Operation = "sale.cancel"
	DashboardRead  Operation = "dashboard.read"
)

var grants = map[string]map[Operation]bool{
	entity.RoleBodeguero: set(
		CategoryRead, CategoryManage, SupplierRead, SupplierManage,
		ProductRead, ProductManage, StockAdjust, MovementRead,
		ClientRead, POSRead, SaleRead, DashboardRead,
	),
	entity.RoleVendedor: set(
		CategoryRead, SupplierRead, ProductRead, MovementRead,
		ClientRead, ClientManage, POSRead,
		SaleCreate, SaleRead, DashboardRead,
	),
}

func set(ops ...Operation) map[Operation]bool {
	m := make(map[Operation]bool, len(ops))
	for _, op := range ops {
		m[op] = true
	}
	return m
}

// Allowed indica si el rol puede ejecutar la operación. admin puede todo; un rol desconocido nada.
func Allowed(role string, op Operation) bool {
	if role == entity.RoleAdmin {
		return true
	}
	return grants[role][op]
}

// Operations lista lo permitido para un rol (para /auth/me).
func Operations(role string) []Operation {
	all := []Operation{
		CompanyManage, UserManage, CategoryRead, CategoryManage, SupplierRead, SupplierManage,
		ClientRead, ClientManage, POSRead, POSManage, ProductRead, ProductManage, StockAdjust,
		MovementRead, SaleCreate, SaleRead, SaleCancel, DashboardRead,
	}
	out := make([]Operation, 0, len(all))
	for _, op := range all {
		if Allowed(role, op) {
			out = append(out, op)
		}
	}
	return out
}
