package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, document, email, phone, address, active, created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.Address, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

// Create persiste una nueva empresa. Documento duplicado -> ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.q.Exec(ctx, `INSERT INTO companies (`+companyColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Document, c.Email, c.Phone, c.Address, c.Active, c.CreatedAt, c.UpdatedAt)
	return mapError("insert company", err)
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError("get company", err)
	}
	return c, nil
}

// Update actualiza datos de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE companies SET name = $2, document = $3, email = $4, phone = $5, address = $6, active = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.Name, c.Document, c.Email, c.Phone, c.Address, c.Active, c.UpdatedAt)
	if err != nil {
		return mapError("update company", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapError("list companies", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, mapError("list companies", rows.Err())
}

// CountDependents productos activos, usuarios activos y clientes activos de la empresa.
func (r *CompanyRepo) CountDependents(ctx context.Context, id string) (repository.CompanyDependents, error) {
	var d repository.CompanyDependents
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM products WHERE company_id = $1 AND active),
			(SELECT count(*) FROM users    WHERE company_id = $1 AND status = 'active'),
			(SELECT count(*) FROM clients  WHERE company_id = $1 AND active)`, id,
	).Scan(&d.Products, &d.Users, &d.Clients)
	return d, mapError("count company dependents", err)
}
