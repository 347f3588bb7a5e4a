package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockpro/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	Status   string
	ClientID string
	From     *time.Time
	To       *time.Time
}

// SaleRepository persistencia del agregado Sale (cabecera + líneas).
type SaleRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas, o (nil, nil).
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetByNumber(ctx context.Context, companyID string, number int64) (*entity.Sale, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, companyID, id, status string, at time.Time) error
	// List devuelve cabeceras sin líneas, más recientes primero, y el total.
	List(ctx context.Context, companyID string, filter SaleFilter, limit, offset int) ([]*entity.Sale, int, error)
	CountByClient(ctx context.Context, companyID, clientID string) (int, error)
	CountByUser(ctx context.Context, companyID, userID string) (int, error)
	CountByPointOfSale(ctx context.Context, companyID, posID string) (int, error)
}
