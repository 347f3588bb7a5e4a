package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de una empresa.
// Stock solo cambia a través de movimientos (venta, reabastecimiento, ajuste); nunca es negativo.
type Product struct {
	ID          string
	CompanyID   string
	Code        string // código único por empresa; se autogenera con 4 dígitos si viene vacío
	Name        string
	Description string
	CategoryID  string // vacío = sin categoría
	SupplierID  string // vacío = sin proveedor
	CostPrice   decimal.Decimal // costo promedio ponderado
	SalePrice   decimal.Decimal
	UnitMeasure string
	Stock       int64
	MinStock    int64 // umbral de stock bajo (inclusivo)
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock stock <= mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// IsOutOfStock stock agotado.
func (p *Product) IsOutOfStock() bool {
	return p.Stock == 0
}
