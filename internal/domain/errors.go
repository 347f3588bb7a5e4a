package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrReferentialConstraint = errors.New("el recurso está referenciado por otros registros")
	ErrTransient             = errors.New("contención temporal, reintente la operación")
)

// ValidationError error de entrada con el campo que falló.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Motivos de rechazo de una línea de venta.
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonProductNotFound   = "product_not_found"
	ReasonClientNotFound    = "client_not_found"
	ReasonInvalidQuantity   = "invalid_quantity"
)

// LineFailure describe por qué se rechazó una línea. Index -1 indica un fallo de cabecera (cliente).
type LineFailure struct {
	Index     int    `json:"index"`
	ProductID string `json:"product_id,omitempty"`
	Reason    string `json:"reason"`
	Requested int64  `json:"requested,omitempty"`
	Available int64  `json:"available,omitempty"`
}

// SaleRejectedError rechazo completo de una venta: ninguna línea se aplicó.
type SaleRejectedError struct {
	Failures []LineFailure
}

func (e *SaleRejectedError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Index < 0 {
			reasons = append(reasons, f.Reason)
			continue
		}
		reasons = append(reasons, fmt.Sprintf("línea %d: %s", f.Index, f.Reason))
	}
	return "venta rechazada (" + strings.Join(reasons, "; ") + ")"
}

// Is permite errors.Is(err, ErrInsufficientStock) y similares según los motivos presentes.
func (e *SaleRejectedError) Is(target error) bool {
	for _, f := range e.Failures {
		switch {
		case target == ErrInsufficientStock && f.Reason == ReasonInsufficientStock:
			return true
		case target == ErrNotFound && (f.Reason == ReasonProductNotFound || f.Reason == ReasonClientNotFound):
			return true
		case target == ErrInvalidInput && f.Reason == ReasonInvalidQuantity:
			return true
		}
	}
	return false
}

// HasReason indica si algún fallo tiene el motivo dado.
func (e *SaleRejectedError) HasReason(reason string) bool {
	for _, f := range e.Failures {
		if f.Reason == reason {
			return true
		}
	}
	return false
}

// ReferenceError borrado bloqueado por registros dependientes.
type ReferenceError struct {
	Entity     string
	Dependents int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s referenciado por %d registro(s)", e.Entity, e.Dependents)
}

func (e *ReferenceError) Unwrap() error { return ErrReferentialConstraint }
