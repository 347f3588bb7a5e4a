package repository

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
	// FindByEmail busca en todas las empresas (login).
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
}
