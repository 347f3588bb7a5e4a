package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el repositorio de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, company_id, name, description, active, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.CompanyID, c.Name, c.Description, c.Active, c.CreatedAt, c.UpdatedAt)
	return mapError("insert category", err)
}

func (r *CategoryRepo) get(ctx context.Context, where string, args ...any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+where, args...))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError("get category", err)
	}
	return c, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Category, error) {
	return r.get(ctx, "company_id = $1 AND id = $2", companyID, id)
}

func (r *CategoryRepo) Lock(ctx context.Context, companyID, id string, mode repository.RowLock) (*entity.Category, error) {
	return r.get(ctx, "company_id = $1 AND id = $2"+lockClause(mode), companyID, id)
}

// GetByName búsqueda exacta sin distinguir mayúsculas (importador de catálogo).
func (r *CategoryRepo) GetByName(ctx context.Context, companyID, name string) (*entity.Category, error) {
	return r.get(ctx, "company_id = $1 AND lower(name) = lower($2)", companyID, name)
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $3, description = $4, active = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2`,
		c.CompanyID, c.ID, c.Name, c.Description, c.Active, c.UpdatedAt)
	if err != nil {
		return mapError("update category", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories
		WHERE company_id = $1 AND (active OR NOT $2) ORDER BY name`, companyID, activeOnly)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, mapError("list categories", rows.Err())
}
