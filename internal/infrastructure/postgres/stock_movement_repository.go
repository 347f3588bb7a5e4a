package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre la tabla stock_movements (solo INSERT y SELECT).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el repositorio del kardex.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento; seq lo asigna la base (BIGSERIAL).
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (id, company_id, product_id, kind, quantity, reason, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`,
		m.ID, m.CompanyID, m.ProductID, m.Kind, m.Quantity, m.Reason, m.Reference, m.CreatedBy, m.CreatedAt,
	).Scan(&m.Seq)
	return mapError("insert stock movement", err)
}

// List movimientos filtrados; más recientes primero, empates por orden de inserción.
func (r *StockMovementRepo) List(ctx context.Context, companyID string, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, seq, company_id, product_id, kind, quantity, reason, reference, created_by, created_at
		FROM stock_movements WHERE %s
		ORDER BY created_at DESC, seq DESC
		LIMIT $%d OFFSET $%d`, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.Seq, &m.CompanyID, &m.ProductID, &m.Kind, &m.Quantity,
			&m.Reason, &m.Reference, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, mapError("list stock movements", rows.Err())
}

// NetQuantity entradas menos salidas del producto.
func (r *StockMovementRepo) NetQuantity(ctx context.Context, companyID, productID string) (int64, error) {
	var net int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN kind = 'entry' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE company_id = $1 AND product_id = $2`,
		companyID, productID).Scan(&net)
	return net, mapError("sum stock movements", err)
}
