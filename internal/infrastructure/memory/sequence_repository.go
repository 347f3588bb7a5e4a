package memory

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores por empresa. Dentro de Run el snapshot devuelve el número si hay rollback.
type SequenceRepo struct {
	s  *Store
	tx bool
}

func (r *SequenceRepo) Next(ctx context.Context, companyID, name string) (int64, error) {
	var n int64
	err := r.s.with(ctx, r.tx, func(st *state) error {
		key := companyID + "|" + name
		st.sequences[key]++
		n = st.sequences[key]
		return nil
	})
	return n, err
}
