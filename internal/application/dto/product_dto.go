package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Code vacío = autogenerado.
// InitialStock se registra como movimiento de entrada, nunca se escribe directo.
type CreateProductRequest struct {
	Code         string          `json:"code" validate:"omitempty,max=50"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description" validate:"max=1000"`
	CategoryID   string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID   string          `json:"supplier_id" validate:"omitempty,uuid"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	UnitMeasure  string          `json:"unit_measure" validate:"omitempty,max=20"`
	InitialStock int64           `json:"initial_stock" validate:"min=0"`
	MinStock     int64           `json:"min_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo ni stock).
type UpdateProductRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1,max=50"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty,uuid"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	UnitMeasure *string          `json:"unit_measure"`
	MinStock    *int64           `json:"min_stock" validate:"omitempty,min=0"`
	Active      *bool            `json:"active"`
}

// ProductFilterRequest filtros de GET /products.
type ProductFilterRequest struct {
	PageRequest
	Search     string `query:"search"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	All        bool   `query:"all"` // incluye inactivos
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	UnitMeasure string          `json:"unit_measure"`
	Stock       int64           `json:"stock"`
	MinStock    int64           `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	OutOfStock  bool            `json:"out_of_stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
