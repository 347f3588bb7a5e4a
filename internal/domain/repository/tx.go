package repository

import "context"

// Stores repositorios atados a una misma transacción.
type Stores struct {
	Products     ProductRepository
	Movements    StockMovementRepository
	Sales        SaleRepository
	Clients      ClientRepository
	Sequences    SequenceRepository
	Categories   CategoryRepository
	Suppliers    SupplierRepository
	PointsOfSale PointOfSaleRepository
}

// RowLock modo de bloqueo de una fila referenciada por otras (categoría, proveedor,
// cliente, punto de venta). Solo tiene efecto dentro de TxRunner.Run.
type RowLock int

const (
	// LockShare lo toma quien agrega un dependiente; no excluye a otros LockShare.
	LockShare RowLock = iota
	// LockUpdate lo toma quien desactiva la fila; excluye a todos.
	LockUpdate
)

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Los errores de contención (lock timeout, deadlock, serialización) se devuelven envueltos
// en domain.ErrTransient.
type TxRunner interface {
	Run(ctx context.Context, fn func(s Stores) error) error
}
