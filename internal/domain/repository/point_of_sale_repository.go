package repository

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// PointOfSaleRepository puerto de persistencia para puntos de venta.
type PointOfSaleRepository interface {
	Create(ctx context.Context, p *entity.PointOfSale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.PointOfSale, error)
	// Lock igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	Lock(ctx context.Context, companyID, id string, mode RowLock) (*entity.PointOfSale, error)
	Update(ctx context.Context, p *entity.PointOfSale) error
	List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.PointOfSale, error)
}
