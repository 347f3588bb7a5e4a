// Package inventory reúne las reglas puras del inventario: costo promedio, aplicación de
// deltas de stock y sugerencia de reposición.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpro/internal/domain"
)

// WeightedAverageCost costo promedio ponderado tras una entrada:
// ((stockActual * costoActual) + (cantEntrada * costoEntrada)) / (stockActual + cantEntrada)
func WeightedAverageCost(stock int64, currentCost decimal.Decimal, qty int64, unitCost decimal.Decimal) decimal.Decimal {
	total := stock + qty
	if total <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(stock).Mul(currentCost).Add(decimal.NewFromInt(qty).Mul(unitCost))
	return num.Div(decimal.NewFromInt(total)).Round(4)
}

// ApplyDelta devuelve el nuevo stock o ErrInsufficientStock si quedaría negativo.
func ApplyDelta(stock, delta int64) (int64, error) {
	if delta == 0 {
		return stock, domain.Invalid("delta", "debe ser distinto de cero")
	}
	next := stock + delta
	if next < 0 {
		return stock, domain.ErrInsufficientStock
	}
	return next, nil
}

// SuggestReorder stock ideal = max(mínimo * 1.5, mínimo + 1) y cantidad a pedir para llegar a él.
func SuggestReorder(stock, minStock int64) (ideal, suggested int64) {
	ideal = decimal.NewFromInt(minStock).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
	if ideal < minStock+1 {
		ideal = minStock + 1
	}
	suggested = ideal - stock
	if suggested < 0 {
		suggested = 0
	}
	return ideal, suggested
}
