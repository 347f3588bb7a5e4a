package entity

import "time"

// Category agrupa productos; el nombre es único por empresa.
type Category struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
