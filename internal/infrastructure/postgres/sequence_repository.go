package postgres

import (
	"context"

	"github.com/jhoicas/stockpro/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores por empresa en la tabla sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el repositorio de secuencias.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador. El UPSERT deja la fila bloqueada hasta el fin de la
// transacción: ventas concurrentes de la misma empresa se serializan aquí.
func (r *SequenceRepo) Next(ctx context.Context, companyID, name string) (int64, error) {
	var v int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO sequences (company_id, name, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (company_id, name) DO UPDATE SET last_value = sequences.last_value + 1
		RETURNING last_value`, companyID, name).Scan(&v)
	return v, mapError("next sequence "+name, err)
}
