package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// scriptedQuerier registra el SQL recibido; Query no devuelve filas y QueryRow escanea count.
type scriptedQuerier struct {
	queries []string
	count   int
}

func (q *scriptedQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	return pgconn.CommandTag{}, nil
}

func (q *scriptedQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	return noRows{}, nil
}

func (q *scriptedQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	return countRow(q.count)
}

type countRow int

func (r countRow) Scan(dest ...any) error {
	*dest[0].(*int) = int(r)
	return nil
}

type noRows struct{}

func (noRows) Close()                                       {}
func (noRows) Err() error                                   { return nil }
func (noRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (noRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (noRows) Next() bool                                   { return false }
func (noRows) Scan(...any) error                            { return nil }
func (noRows) Values() ([]any, error)                       { return nil, nil }
func (noRows) RawValues() [][]byte                          { return nil }
func (noRows) Conn() *pgx.Conn                              { return nil }

// ──────────────────────────────────────────────────────────────────────────────

func TestLockInRequest_PosicionEsperaPorLasFilas(t *testing.T) {
	q := &scriptedQuerier{}
	itemID := "item-1"

	units, err := NewUnitRepository(q).LockInRequest(context.Background(), "prod-1", &itemID, 2)
	require.NoError(t, err)
	assert.Empty(t, units)
	require.Len(t, q.queries, 1, "sin conteo de filas saltadas")
	assert.Contains(t, q.queries[0], "FOR UPDATE")
	assert.NotContains(t, q.queries[0], "SKIP LOCKED")
}

func TestLockInRequest_FilasSaltadasSonConflicto(t *testing.T) {
	q := &scriptedQuerier{count: 2}

	_, err := NewUnitRepository(q).LockInRequest(context.Background(), "prod-1", nil, 2)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	require.Len(t, q.queries, 2)
	assert.Contains(t, q.queries[0], "SKIP LOCKED")
}

func TestLockInRequest_SinUnidadesDisponibles(t *testing.T) {
	q := &scriptedQuerier{count: 0}

	units, err := NewUnitRepository(q).LockInRequest(context.Background(), "prod-1", nil, 2)
	require.NoError(t, err)
	assert.Empty(t, units)
}
