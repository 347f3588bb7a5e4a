package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body de POST /products/:id/adjust. Delta positivo = entrada, negativo = salida.
type AdjustStockRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// RestockRequest body de POST /products/:id/restock.
type RestockRequest struct {
	Quantity int64            `json:"quantity" validate:"required,gt=0"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason   string           `json:"reason" validate:"max=200"`
}

// RegisterMovementRequest body para POST /inventory/movements (formulario de movimiento manual).
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Kind      string           `json:"kind" validate:"required,oneof=entry exit"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason    string           `json:"reason" validate:"required,max=200"`
}

// MovementFilterRequest filtros de GET /inventory/movements.
type MovementFilterRequest struct {
	PageRequest
	ProductID string     `query:"product_id" validate:"omitempty,uuid"`
	Kind      string     `query:"kind" validate:"omitempty,oneof=entry exit"`
	From      *time.Time `query:"-"`
	To        *time.Time `query:"-"`
}

// MovementResponse entrada del kardex.
type MovementResponse struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	ProductID string    `json:"product_id"`
	Kind      string    `json:"kind"`
	Quantity  int64     `json:"quantity"`
	Reason    string    `json:"reason"`
	Reference string    `json:"reference,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StockChangeResponse resultado de un ajuste: el movimiento y el stock resultante.
type StockChangeResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
}

// LedgerResponse conciliación de un producto: stock vs. saldo neto del kardex.
type LedgerResponse struct {
	ProductID  string `json:"product_id"`
	Stock      int64  `json:"stock"`
	NetBalance int64  `json:"net_balance"`
	Consistent bool   `json:"consistent"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto con stock bajo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	Code               string          `json:"code"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	IdealStock         int64           `json:"ideal_stock"`         // max(mínimo * 1.5, mínimo + 1)
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	OutOfStock         bool            `json:"out_of_stock"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
