package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// FieldError campo que no pasó la validación.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP. Failures solo aparece en ventas rechazadas,
// Fields en errores de validación y Dependents en bloqueos referenciales.
type ErrorResponse struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Fields     []FieldError  `json:"fields,omitempty"`
	Failures   []LineFailure `json:"failures,omitempty"`
	Dependents int           `json:"dependents,omitempty"`
}

// LineFailure motivo de rechazo de una línea de venta (index -1 = cabecera).
type LineFailure struct {
	Index     int    `json:"index"`
	ProductID string `json:"product_id,omitempty"`
	Reason    string `json:"reason"`
	Requested int64  `json:"requested,omitempty"`
	Available int64  `json:"available,omitempty"`
}
