package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, company_id, name, kind, document, email, phone, street, number, district,
	city, state, zip_code, active, created_at, updated_at`

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de persistencia para clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Kind, &c.Document, &c.Email, &c.Phone, &c.Street,
		&c.Number, &c.District, &c.City, &c.State, &c.ZipCode, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx, `INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.CompanyID, c.Name, c.Kind, c.Document, c.Email, c.Phone, c.Street, c.Number, c.District,
		c.City, c.State, c.ZipCode, c.Active, c.CreatedAt, c.UpdatedAt)
	return mapError("insert client", err)
}

// GetByID obtiene un cliente de la empresa.
func (r *ClientRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Client, error) {
	return r.getByID(ctx, companyID, id, "")
}

// Lock GetByID con FOR SHARE o FOR UPDATE.
func (r *ClientRepo) Lock(ctx context.Context, companyID, id string, mode repository.RowLock) (*entity.Client, error) {
	return r.getByID(ctx, companyID, id, lockClause(mode))
}

func (r *ClientRepo) getByID(ctx context.Context, companyID, id, lock string) (*entity.Client, error) {
	out, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE company_id = $1 AND id = $2`+lock, companyID, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError("get client", err)
	}
	return out, nil
}

// Update actualiza todos los campos editables (incluido active).
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE clients SET name = $3, kind = $4, document = $5, email = $6, phone = $7, street = $8,
			number = $9, district = $10, city = $11, state = $12, zip_code = $13, active = $14, updated_at = $15
		WHERE company_id = $1 AND id = $2`,
		c.CompanyID, c.ID, c.Name, c.Kind, c.Document, c.Email, c.Phone, c.Street, c.Number, c.District,
		c.City, c.State, c.ZipCode, c.Active, c.UpdatedAt)
	if err != nil {
		return mapError("update client", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List clientes por nombre, documento o email.
func (r *ClientRepo) List(ctx context.Context, companyID, search string, activeOnly bool, limit, offset int) ([]*entity.Client, int, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = append(where, fmt.Sprintf("(lower(name) LIKE $%[1]d OR document LIKE $%[1]d OR lower(email) LIKE $%[1]d)", len(args)))
	}
	if activeOnly {
		where = append(where, "active")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM clients WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count clients", err)
	}
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT `+clientColumns+` FROM clients WHERE %s
		ORDER BY name, id LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, mapError("list clients", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, total, mapError("list clients", rows.Err())
}
