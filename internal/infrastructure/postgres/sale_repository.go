package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, company_id, number, number_label, client_id, user_id, point_of_sale_id,
	payment_method, notes, status, subtotal, discount, total, created_at, cancelled_at`

// SaleRepo persistencia de ventas (sales + sale_lines).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el repositorio de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var posID *string
	err := row.Scan(&s.ID, &s.CompanyID, &s.Number, &s.NumberLabel, &s.ClientID, &s.UserID, &posID,
		&s.PaymentMethod, &s.Notes, &s.Status, &s.Subtotal, &s.Discount, &s.Total, &s.CreatedAt, &s.CancelledAt)
	if err != nil {
		return nil, err
	}
	s.PointOfSaleID = orEmpty(posID)
	return &s, nil
}

// Create inserta la cabecera y todas las líneas. Debe llamarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.CompanyID, s.Number, s.NumberLabel, s.ClientID, s.UserID, nullable(s.PointOfSaleID),
		s.PaymentMethod, s.Notes, s.Status, s.Subtotal, s.Discount, s.Total, s.CreatedAt, s.CancelledAt,
	)
	if err != nil {
		return mapError("insert sale", err)
	}
	for _, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, position, product_id, product_code, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, s.ID, l.Position, l.ProductID, l.ProductCode, l.ProductName, l.Quantity, l.UnitPrice, l.LineTotal,
		)
		if err != nil {
			return mapError("insert sale line", err)
		}
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, op, where string, args ...any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE `+where, args...))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	if err := r.loadLines(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) loadLines(ctx context.Context, s *entity.Sale) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, position, product_id, product_code, product_name, quantity, unit_price, line_total
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return mapError("list sale lines", err)
	}
	defer rows.Close()
	s.Lines = s.Lines[:0]
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.Position, &l.ProductID, &l.ProductCode, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	return mapError("list sale lines", rows.Err())
}

// GetByID venta con líneas.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale", "company_id = $1 AND id = $2", companyID, id)
}

// GetByNumber venta por consecutivo.
func (r *SaleRepo) GetByNumber(ctx context.Context, companyID string, number int64) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale by number", "company_id = $1 AND number = $2", companyID, number)
}

// GetForUpdate venta con la cabecera bloqueada (cancelación).
func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "lock sale", "company_id = $1 AND id = $2 FOR UPDATE", companyID, id)
}

// UpdateStatus cambia el estado; cancelled_at se fija solo al cancelar.
func (r *SaleRepo) UpdateStatus(ctx context.Context, companyID, id, status string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $3,
			cancelled_at = CASE WHEN $3 = 'cancelled' THEN $4::timestamptz ELSE cancelled_at END
		WHERE company_id = $1 AND id = $2`, companyID, id, status, at)
	if err != nil {
		return mapError("update sale status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List cabeceras filtradas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, companyID string, f repository.SaleFilter, limit, offset int) ([]*entity.Sale, int, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count sales", err)
	}

	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT `+saleColumns+` FROM sales WHERE %s
		ORDER BY created_at DESC, number DESC LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, mapError("list sales", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, mapError("list sales", rows.Err())
}

func (r *SaleRepo) count(ctx context.Context, column, companyID, value string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM sales WHERE company_id = $1 AND `+column+` = $2`, companyID, value).Scan(&n)
	return n, mapError("count sales by "+column, err)
}

// CountByClient ventas (de cualquier estado) de un cliente.
func (r *SaleRepo) CountByClient(ctx context.Context, companyID, clientID string) (int, error) {
	return r.count(ctx, "client_id", companyID, clientID)
}

// CountByUser ventas registradas por un usuario.
func (r *SaleRepo) CountByUser(ctx context.Context, companyID, userID string) (int, error) {
	return r.count(ctx, "user_id", companyID, userID)
}

// CountByPointOfSale ventas hechas en un punto de venta.
func (r *SaleRepo) CountByPointOfSale(ctx context.Context, companyID, posID string) (int, error) {
	return r.count(ctx, "point_of_sale_id", companyID, posID)
}
