package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s  *Store
	tx bool
}

func copySale(s entity.Sale, withLines bool) *entity.Sale {
	if withLines {
		s.Lines = append([]entity.SaleLine(nil), s.Lines...)
	} else {
		s.Lines = nil
	}
	if s.CancelledAt != nil {
		at := *s.CancelledAt
		s.CancelledAt = &at
	}
	return &s
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		for _, o := range st.sales {
			if o.CompanyID == sale.CompanyID && o.Number == sale.Number {
				return domain.ErrDuplicate
			}
		}
		st.sales[sale.ID] = *copySale(*sale, true)
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.with(ctx, r.tx, func(st *state) error {
		if s, ok := st.sales[id]; ok && s.CompanyID == companyID {
			out = copySale(s, true)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetByNumber(ctx context.Context, companyID string, number int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, s := range st.sales {
			if s.CompanyID == companyID && s.Number == number {
				out = copySale(s, true)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, companyID, id, status string, at time.Time) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		s, ok := st.sales[id]
		if !ok || s.CompanyID != companyID {
			return domain.ErrNotFound
		}
		s.Status = status
		if status == entity.SaleStatusCancelled {
			s.CancelledAt = &at
		}
		st.sales[id] = s
		return nil
	})
}

func (r *SaleRepo) List(ctx context.Context, companyID string, f repository.SaleFilter, limit, offset int) ([]*entity.Sale, int, error) {
	var all []*entity.Sale
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, s := range st.sales {
			if s.CompanyID != companyID ||
				(f.Status != "" && s.Status != f.Status) ||
				(f.ClientID != "" && s.ClientID != f.ClientID) ||
				(f.From != nil && s.CreatedAt.Before(*f.From)) ||
				(f.To != nil && !s.CreatedAt.Before(*f.To)) {
				continue
			}
			all = append(all, copySale(s, false))
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Number > all[j].Number
	})
	return page(all, limit, offset), len(all), err
}

func (r *SaleRepo) count(ctx context.Context, match func(s entity.Sale) bool) (int, error) {
	n := 0
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, s := range st.sales {
			if match(s) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *SaleRepo) CountByClient(ctx context.Context, companyID, clientID string) (int, error) {
	return r.count(ctx, func(s entity.Sale) bool { return s.CompanyID == companyID && s.ClientID == clientID })
}

func (r *SaleRepo) CountByUser(ctx context.Context, companyID, userID string) (int, error) {
	return r.count(ctx, func(s entity.Sale) bool { return s.CompanyID == companyID && s.UserID == userID })
}

func (r *SaleRepo) CountByPointOfSale(ctx context.Context, companyID, posID string) (int, error) {
	return r.count(ctx, func(s entity.Sale) bool { return s.CompanyID == companyID && s.PointOfSaleID == posID })
}
