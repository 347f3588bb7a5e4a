package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados de solo lectura.
type DashboardRepo struct {
	s  *Store
	tx bool
}

func (r *DashboardRepo) GetTotals(ctx context.Context, companyID string) (repository.DirectoryTotals, error) {
	var t repository.DirectoryTotals
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID != companyID || !p.Active {
				continue
			}
			t.Products++
			if p.IsLowStock() {
				t.LowStock++
			}
			if p.IsOutOfStock() {
				t.OutOfStock++
			}
		}
		for _, c := range st.clients {
			if c.CompanyID == companyID && c.Active {
				t.Clients++
			}
		}
		for _, c := range st.categories {
			if c.CompanyID == companyID && c.Active {
				t.Categories++
			}
		}
		for _, s := range st.suppliers {
			if s.CompanyID == companyID && s.Active {
				t.Suppliers++
			}
		}
		return nil
	})
	return t, err
}

func (r *DashboardRepo) GetSalesTotals(ctx context.Context, companyID string, from, to time.Time) (repository.SalesTotals, error) {
	t := repository.SalesTotals{Revenue: decimal.Zero}
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, s := range st.sales {
			if s.CompanyID != companyID || s.Status != entity.SaleStatusFinalized ||
				s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
				continue
			}
			t.Count++
			t.Revenue = t.Revenue.Add(s.Total)
		}
		return nil
	})
	return t, err
}
