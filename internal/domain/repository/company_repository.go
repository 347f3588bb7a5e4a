package repository

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// CompanyDependents cuenta lo que cuelga de una empresa.
type CompanyDependents struct {
	Products int
	Users    int
	Clients  int
}

// Total suma de dependientes.
func (d CompanyDependents) Total() int { return d.Products + d.Users + d.Clients }

// CompanyRepository define el puerto de persistencia para Company.
type CompanyRepository interface {
	Create(ctx context.Context, c *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, c *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	CountDependents(ctx context.Context, id string) (CompanyDependents, error)
}
