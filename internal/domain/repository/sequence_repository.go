package repository

import "context"

// Nombres de secuencias por empresa.
const (
	SequenceSale        = "sale"
	SequenceProductCode = "product_code"
)

// SequenceRepository contador por (empresa, nombre). Next debe ejecutarse dentro de la
// transacción que usa el número: la fila queda bloqueada hasta el commit y un rollback
// devuelve el número, así no hay huecos ni duplicados.
type SequenceRepository interface {
	Next(ctx context.Context, companyID, name string) (int64, error)
}
