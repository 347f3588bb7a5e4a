package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.PointOfSaleRepository = (*PointOfSaleRepo)(nil)

// PointOfSaleRepo implementación del puerto PointOfSaleRepository sobre PostgreSQL.
type PointOfSaleRepo struct {
	q Querier
}

// NewPointOfSaleRepository construye el repositorio de puntos de venta.
func NewPointOfSaleRepository(q Querier) *PointOfSaleRepo {
	return &PointOfSaleRepo{q: q}
}

const posColumns = `id, company_id, name, location, active, created_at, updated_at`

func scanPOS(row pgx.Row) (*entity.PointOfSale, error) {
	var p entity.PointOfSale
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Location, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *PointOfSaleRepo) Create(ctx context.Context, p *entity.PointOfSale) error {
	_, err := r.q.Exec(ctx, `INSERT INTO points_of_sale (`+posColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.CompanyID, p.Name, p.Location, p.Active, p.CreatedAt, p.UpdatedAt)
	return mapError("insert point of sale", err)
}

func (r *PointOfSaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PointOfSale, error) {
	return r.getByID(ctx, companyID, id, "")
}

// Lock GetByID con FOR SHARE o FOR UPDATE.
func (r *PointOfSaleRepo) Lock(ctx context.Context, companyID, id string, mode repository.RowLock) (*entity.PointOfSale, error) {
	return r.getByID(ctx, companyID, id, lockClause(mode))
}

func (r *PointOfSaleRepo) getByID(ctx context.Context, companyID, id, lock string) (*entity.PointOfSale, error) {
	out, err := scanPOS(r.q.QueryRow(ctx,
		`SELECT `+posColumns+` FROM points_of_sale WHERE company_id = $1 AND id = $2`+lock, companyID, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError("get point of sale", err)
	}
	return out, nil
}

func (r *PointOfSaleRepo) Update(ctx context.Context, p *entity.PointOfSale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE points_of_sale SET name = $3, location = $4, active = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2`,
		p.CompanyID, p.ID, p.Name, p.Location, p.Active, p.UpdatedAt)
	if err != nil {
		return mapError("update point of sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PointOfSaleRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.PointOfSale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+posColumns+` FROM points_of_sale
		WHERE company_id = $1 AND (active OR NOT $2) ORDER BY name`, companyID, activeOnly)
	if err != nil {
		return nil, mapError("list points of sale", err)
	}
	defer rows.Close()
	var list []*entity.PointOfSale
	for rows.Next() {
		p, err := scanPOS(rows)
		if err != nil {
			return nil, fmt.Errorf("scan point of sale: %w", err)
		}
		list = append(list, p)
	}
	return list, mapError("list points of sale", rows.Err())
}
