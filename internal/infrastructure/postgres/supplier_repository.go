package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el repositorio de proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, company_id, name, document, email, phone, contact_name, active, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Document, &s.Email, &s.Phone, &s.ContactName,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CompanyID, s.Name, s.Document, s.Email, s.Phone, s.ContactName, s.Active, s.CreatedAt, s.UpdatedAt)
	return mapError("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	return r.getByID(ctx, companyID, id, "")
}

// Lock GetByID con FOR SHARE o FOR UPDATE.
func (r *SupplierRepo) Lock(ctx context.Context, companyID, id string, mode repository.RowLock) (*entity.Supplier, error) {
	return r.getByID(ctx, companyID, id, lockClause(mode))
}

func (r *SupplierRepo) getByID(ctx context.Context, companyID, id, lock string) (*entity.Supplier, error) {
	out, err := scanSupplier(r.q.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE company_id = $1 AND id = $2`+lock, companyID, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError("get supplier", err)
	}
	return out, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $3, document = $4, email = $5, phone = $6, contact_name = $7,
			active = $8, updated_at = $9
		WHERE company_id = $1 AND id = $2`,
		s.CompanyID, s.ID, s.Name, s.Document, s.Email, s.Phone, s.ContactName, s.Active, s.UpdatedAt)
	if err != nil {
		return mapError("update supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers
		WHERE company_id = $1 AND (active OR NOT $2) ORDER BY name`, companyID, activeOnly)
	if err != nil {
		return nil, mapError("list suppliers", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, mapError("list suppliers", rows.Err())
}
