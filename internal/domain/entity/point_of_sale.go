package entity

import "time"

// PointOfSale caja o punto de venta de la empresa.
type PointOfSale struct {
	ID        string
	CompanyID string
	Name      string
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
