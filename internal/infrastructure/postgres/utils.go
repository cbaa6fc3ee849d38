package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isTransient errores de contención que se resuelven reintentando la transacción:
// serialization_failure, deadlock_detected, lock_not_available.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

// wrap envuelve el error de una operación; la contención se traduce a domain.ErrConcurrentUpdate.
func wrap(op string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrConcurrentUpdate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
