package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCategoryRequest campos opcionales.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Document    string `json:"document" validate:"omitempty,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	ContactName string `json:"contact_name" validate:"omitempty,max=200"`
}

// UpdateSupplierRequest campos opcionales.
type UpdateSupplierRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Document    *string `json:"document" validate:"omitempty,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=200"`
	Active      *bool   `json:"active"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Document    string    `json:"document,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ContactName string    `json:"contact_name,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClientAddress dirección de un cliente.
type ClientAddress struct {
	Street   string `json:"street" validate:"max=200"`
	Number   string `json:"number" validate:"max=20"`
	District string `json:"district" validate:"max=100"`
	City     string `json:"city" validate:"max=100"`
	State    string `json:"state" validate:"max=50"`
	ZipCode  string `json:"zip_code" validate:"max=20"`
}

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name     string        `json:"name" validate:"required,min=1,max=200"`
	Kind     string        `json:"kind" validate:"omitempty,oneof=person company"`
	Document string        `json:"document" validate:"omitempty,max=20"`
	Email    string        `json:"email" validate:"omitempty,email"`
	Phone    string        `json:"phone" validate:"omitempty,max=30"`
	Address  ClientAddress `json:"address"`
}

// UpdateClientRequest campos opcionales; Address reemplaza la dirección completa.
type UpdateClientRequest struct {
	Name     *string        `json:"name" validate:"omitempty,min=1,max=200"`
	Kind     *string        `json:"kind" validate:"omitempty,oneof=person company"`
	Document *string        `json:"document" validate:"omitempty,max=20"`
	Email    *string        `json:"email" validate:"omitempty,email"`
	Phone    *string        `json:"phone" validate:"omitempty,max=30"`
	Address  *ClientAddress `json:"address"`
	Active   *bool          `json:"active"`
}

// ClientFilterRequest filtros de GET /clients.
type ClientFilterRequest struct {
	PageRequest
	Search string `query:"search"`
	All    bool   `query:"all"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Kind      string        `json:"kind"`
	Document  string        `json:"document,omitempty"`
	Email     string        `json:"email,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Address   ClientAddress `json:"address"`
	Active    bool          `json:"active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreatePointOfSaleRequest entrada para crear un punto de venta.
type CreatePointOfSaleRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Location string `json:"location" validate:"max=200"`
}

// UpdatePointOfSaleRequest campos opcionales.
type UpdatePointOfSaleRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Location *string `json:"location" validate:"omitempty,max=200"`
	Active   *bool   `json:"active"`
}

// PointOfSaleResponse salida de un punto de venta.
type PointOfSaleResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
