package repository

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// ClientRepository puerto de persistencia para clientes. Create/Update devuelven
// domain.ErrDuplicate si documento o email ya existen en la empresa.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Client, error)
	// Lock igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	Lock(ctx context.Context, companyID, id string, mode RowLock) (*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	List(ctx context.Context, companyID, search string, activeOnly bool, limit, offset int) ([]*entity.Client, int, error)
}
