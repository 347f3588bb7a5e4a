package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPending   = "pending"
	SaleStatusFinalized = "finalized"
	SaleStatusCancelled = "cancelled"
)

// Formas de pago aceptadas.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentPix      = "pix"
	PaymentTransfer = "transfer"
	PaymentOther    = "other"
)

// Sale agregado de venta: cabecera + líneas. Inmutable salvo el estado.
type Sale struct {
	ID            string
	CompanyID     string
	Number        int64  // consecutivo por empresa
	NumberLabel   string // número formateado, ej. VEN-000042
	ClientID      string
	UserID        string
	PointOfSaleID string // opcional
	PaymentMethod string
	Notes         string
	Status        string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Lines         []SaleLine
	CreatedAt     time.Time
	CancelledAt   *time.Time
}

// SaleLine línea de venta con el precio congelado al momento de vender.
type SaleLine struct {
	ID          string
	SaleID      string
	Position    int
	ProductID   string
	ProductCode string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ComputeTotals recalcula totales de línea, subtotal y total.
func (s *Sale) ComputeTotals() {
	subtotal := decimal.Zero
	for i := range s.Lines {
		l := &s.Lines[i]
		l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
		subtotal = subtotal.Add(l.LineTotal)
	}
	s.Subtotal = subtotal
	s.Total = subtotal.Sub(s.Discount)
}

// CanTransitionTo valida pending -> finalized|cancelled y finalized -> cancelled.
func (s *Sale) CanTransitionTo(status string) bool {
	switch s.Status {
	case SaleStatusPending:
		return status == SaleStatusFinalized || status == SaleStatusCancelled
	case SaleStatusFinalized:
		return status == SaleStatusCancelled
	}
	return false
}

// FormatSaleNumber aplica prefijo y relleno con ceros: (VEN-, 42, 6) -> VEN-000042.
func FormatSaleNumber(prefix string, number int64, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, number)
}

// ValidPaymentMethod indica si la forma de pago es conocida.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPix, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}
