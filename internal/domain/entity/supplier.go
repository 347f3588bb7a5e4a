package entity

import "time"

// Supplier proveedor de productos.
type Supplier struct {
	ID          string
	CompanyID   string
	Name        string
	Document    string // único por empresa cuando existe
	Email       string
	Phone       string
	ContactName string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
