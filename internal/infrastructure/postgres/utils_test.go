package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWrap_ContencionEsConflictoDeConcurrencia(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		err := wrap("lock candidates", fmt.Errorf("query: %w", &pgconn.PgError{Code: code}))
		assert.ErrorIs(t, err, domain.ErrConcurrentUpdate, code)
	}

	err := wrap("insert", &pgconn.PgError{Code: "23503"})
	assert.False(t, errors.Is(err, domain.ErrConcurrentUpdate))
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr), "el error original se conserva")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", *nullable("x"))
	assert.Equal(t, "", deref(nil))
}
