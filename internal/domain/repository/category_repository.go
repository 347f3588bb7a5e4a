package repository

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Category, error)
	// Lock igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	Lock(ctx context.Context, companyID, id string, mode RowLock) (*entity.Category, error)
	GetByName(ctx context.Context, companyID, name string) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Category, error)
}
