package entity

import "time"

// Company organización/tenant del sistema. Todo lo demás cuelga de una empresa.
type Company struct {
	ID        string
	Name      string
	Document  string // CNPJ / NIT, único global
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
