package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex en memoria (slice append-only).
type StockMovementRepo struct {
	s  *Store
	tx bool
}

func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	return r.s.with(ctx, r.tx, func(st *state) error {
		st.lastSeq++
		m.Seq = st.lastSeq
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *StockMovementRepo) List(ctx context.Context, companyID string, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, m := range st.movements {
			if m.CompanyID != companyID ||
				(f.ProductID != "" && m.ProductID != f.ProductID) ||
				(f.Kind != "" && m.Kind != f.Kind) ||
				(f.From != nil && m.CreatedAt.Before(*f.From)) ||
				(f.To != nil && !m.CreatedAt.Before(*f.To)) {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return page(out, limit, offset), err
}

func (r *StockMovementRepo) NetQuantity(ctx context.Context, companyID, productID string) (int64, error) {
	var net int64
	err := r.s.with(ctx, r.tx, func(st *state) error {
		for _, m := range st.movements {
			if m.CompanyID == companyID && m.ProductID == productID {
				net += m.Delta()
			}
		}
		return nil
	})
	return net, err
}
