package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// MovementFilter filtros de consulta del kardex. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID string
	Kind      string
	From      *time.Time
	To        *time.Time
}

// StockMovementRepository kardex append-only: no existe Update ni Delete.
type StockMovementRepository interface {
	// Append persiste el movimiento y asigna Seq.
	Append(ctx context.Context, m *entity.StockMovement) error
	// List ordena por fecha descendente y, a igual fecha, por Seq descendente.
	List(ctx context.Context, companyID string, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	// NetQuantity suma entradas menos salidas de un producto.
	NetQuantity(ctx context.Context, companyID, productID string) (int64, error)
}
