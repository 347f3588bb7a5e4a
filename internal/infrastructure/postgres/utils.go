package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/internal/domain/repository"
)

// Códigos SQLSTATE relevantes.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
	pgInvalidTextRepr      = "22P02"
)

// lockClause sufijo SELECT ... FOR SHARE / FOR UPDATE.
func lockClause(mode repository.RowLock) string {
	if mode == repository.LockUpdate {
		return " FOR UPDATE"
	}
	return " FOR SHARE"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// isTransient contención de locks, deadlock, fallo de serialización o tiempo agotado.
func isTransient(err error) bool {
	switch pgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// mapError traduce errores de PostgreSQL a errores de dominio; op da contexto al mensaje.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrTransient):
		return err
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case pgCode(err) == pgForeignKeyViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrReferentialConstraint)
	case pgCode(err) == pgInvalidTextRepr:
		// UUID mal formado: la referencia no puede existir
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case pgCode(err) == pgCheckViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	case isTransient(err):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// asTransient marca como transitorio lo que lo sea y deja intacto el resto (errores de dominio).
func asTransient(err error) error {
	if isTransient(err) && !errors.Is(err, domain.ErrTransient) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	return err
}

// notFound indica pgx.ErrNoRows; los repos lo traducen al patrón (nil, nil).
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// orEmpty convierte un *string escaneado de una columna nullable.
func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
