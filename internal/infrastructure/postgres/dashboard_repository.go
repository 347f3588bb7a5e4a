package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only del dashboard.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el repositorio.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// GetTotals conteos de activos en una sola ida a la base.
func (r *DashboardRepo) GetTotals(ctx context.Context, companyID string) (repository.DirectoryTotals, error) {
	var t repository.DirectoryTotals
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM products   WHERE company_id = $1 AND active),
			(SELECT count(*) FROM clients    WHERE company_id = $1 AND active),
			(SELECT count(*) FROM categories WHERE company_id = $1 AND active),
			(SELECT count(*) FROM suppliers  WHERE company_id = $1 AND active),
			(SELECT count(*) FROM products   WHERE company_id = $1 AND active AND stock <= min_stock),
			(SELECT count(*) FROM products   WHERE company_id = $1 AND active AND stock = 0)`, companyID,
	).Scan(&t.Products, &t.Clients, &t.Categories, &t.Suppliers, &t.LowStock, &t.OutOfStock)
	return t, mapError("dashboard totals", err)
}

// GetSalesTotals ventas finalizadas en [from, to). COALESCE devuelve cero si no hay ventas.
func (r *DashboardRepo) GetSalesTotals(ctx context.Context, companyID string, from, to time.Time) (repository.SalesTotals, error) {
	var t repository.SalesTotals
	err := r.q.QueryRow(ctx, `
		SELECT count(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE company_id = $1 AND status = 'finalized' AND created_at >= $2 AND created_at < $3`,
		companyID, from, to,
	).Scan(&t.Count, &t.Revenue)
	return t, mapError("dashboard sales totals", err)
}
