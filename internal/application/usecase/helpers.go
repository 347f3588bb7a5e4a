package usecase

import (
	"github.com/google/uuid"

	"github.com/jhoicas/stockpro/internal/domain"
)

// validID un ID mal formado se trata como inexistente.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return nil
}

// blocked construye el error de borrado bloqueado si hay dependientes.
func blocked(entity string, dependents int) error {
	if dependents > 0 {
		return &domain.ReferenceError{Entity: entity, Dependents: dependents}
	}
	return nil
}
