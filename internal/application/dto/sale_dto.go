package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea pedida. UnitPrice nil = precio de venta actual del producto.
// La cantidad no lleva tag: una cantidad inválida es un motivo de rechazo por línea.
type SaleLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleRequest body de POST /sales.
type CreateSaleRequest struct {
	ClientID      string            `json:"client_id" validate:"required"`
	PointOfSaleID string            `json:"point_of_sale_id" validate:"omitempty,uuid"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash card pix transfer other"`
	Discount      decimal.Decimal   `json:"discount"`
	Notes         string            `json:"notes" validate:"max=500"`
	Lines         []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CancelSaleRequest body de POST /sales/:id/cancel.
type CancelSaleRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

// SaleFilterRequest filtros de GET /sales.
type SaleFilterRequest struct {
	PageRequest
	Status   string     `query:"status" validate:"omitempty,oneof=pending finalized cancelled"`
	ClientID string     `query:"client_id" validate:"omitempty,uuid"`
	From     *time.Time `query:"-"`
	To       *time.Time `query:"-"`
}

// SaleLineResponse línea persistida.
type SaleLineResponse struct {
	Position    int             `json:"position"`
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	CompanyID     string             `json:"company_id"`
	Number        int64              `json:"number"`
	NumberLabel   string             `json:"number_label"`
	ClientID      string             `json:"client_id"`
	UserID        string             `json:"user_id"`
	PointOfSaleID string             `json:"point_of_sale_id,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes,omitempty"`
	Status        string             `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
