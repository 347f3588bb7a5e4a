package repository

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Supplier, error)
	// Lock igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	Lock(ctx context.Context, companyID, id string, mode RowLock) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Supplier, error)
}
