package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // por nombre o código
	CategoryID string
	SupplierID string
	ActiveOnly bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe en la empresa.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Product, error)
	// GetForUpdate bloquea las filas pedidas en orden ascendente de ID. Los IDs inexistentes se omiten.
	GetForUpdate(ctx context.Context, companyID string, ids []string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, companyID, id string, stock int64) error
	UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error
	List(ctx context.Context, companyID string, filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	// ListLowStock productos activos con stock <= mínimo, primero los de menor stock.
	ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error)
	CountActiveByCategory(ctx context.Context, companyID, categoryID string) (int, error)
	CountActiveBySupplier(ctx context.Context, companyID, supplierID string) (int, error)
}
