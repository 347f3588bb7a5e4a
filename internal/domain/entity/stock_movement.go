package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimiento del kardex.
const (
	MovementEntry = "entry" // entrada
	MovementExit  = "exit"  // salida
)

// StockMovement es un asiento inmutable del kardex. Quantity siempre es positiva; Kind da el signo.
type StockMovement struct {
	ID        string
	Seq       int64 // orden de inserción, desempata movimientos con la misma fecha
	CompanyID string
	ProductID string
	Kind      string
	Quantity  int64
	Reason    string
	Reference string // ID de la venta cuando el movimiento lo genera una venta
	CreatedBy string // UserID
	CreatedAt time.Time
}

// Delta devuelve la cantidad con signo (+ entrada, - salida).
func (m *StockMovement) Delta() int64 {
	if m.Kind == MovementExit {
		return -m.Quantity
	}
	return m.Quantity
}

// ValidMovementKind indica si el tipo es entry o exit.
func ValidMovementKind(kind string) bool {
	return kind == MovementEntry || kind == MovementExit
}

// NewMovement arma un asiento a partir de un delta con signo.
func NewMovement(companyID, productID string, delta int64, reason, userID string, at time.Time) *StockMovement {
	m := &StockMovement{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ProductID: productID,
		Kind:      MovementEntry,
		Quantity:  delta,
		Reason:    reason,
		CreatedBy: userID,
		CreatedAt: at,
	}
	if delta < 0 {
		m.Kind = MovementExit
		m.Quantity = -delta
	}
	return m
}
