package entity

import "time"

// Tipos de cliente.
const (
	ClientPerson  = "person"
	ClientCompany = "company"
)

// Client cliente de la empresa. Documento y email son únicos dentro de la empresa cuando existen.
type Client struct {
	ID        string
	CompanyID string
	Name      string
	Kind      string // person | company
	Document  string // CPF/CNPJ, cédula o NIT
	Email     string
	Phone     string
	Street    string
	Number    string
	District  string
	City      string
	State     string
	ZipCode   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
