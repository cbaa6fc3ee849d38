package inventory_test

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// testNow reloj fijo de todos los casos: 2024-03-07 14:05:09 UTC.
var testNow = time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC)

type fixture struct {
	ctx        context.Context
	store      *memory.Store
	read       inventory.Readers
	registry   *inventory.UnitRegistry
	requests   *inventory.RequestUseCase
	deliveries *inventory.DeliveryUseCase
	sales      *inventory.SaleUseCase
	locker     *recordingLocker
	logs       *bytes.Buffer // salida JSON de los casos de uso, nivel info
	product    *entity.Product
	noCode     *entity.Product
	supplier   *entity.Supplier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRunner(t, nil)
}

// newFixtureWithRunner permite envolver el TxRunner del Store (reintentos, fallos inyectados).
func newFixtureWithRunner(t *testing.T, wrap func(inventory.TxRunner) inventory.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	var runner inventory.TxRunner = store
	if wrap != nil {
		runner = wrap(store)
	}
	clock := inventory.Clock(func() time.Time { return testNow })
	serials := dominv.NewSerialGenerator(clock)
	logs := &bytes.Buffer{}
	log := logger.NewWithWriter(logger.Config{Level: "info"}, logs)
	locker := &recordingLocker{}

	f := &fixture{
		ctx:        context.Background(),
		store:      store,
		read:       store.Readers(),
		registry:   inventory.NewUnitRegistry(runner, store.Readers(), serials, clock, log),
		requests:   inventory.NewRequestUseCase(runner, store.Readers(), serials, clock, log),
		deliveries: inventory.NewDeliveryUseCase(runner, store.Readers(), locker, serials, clock, log),
		sales:      inventory.NewSaleUseCase(runner, serials, clock, log),
		locker:     locker,
		logs:       logs,
	}

	f.supplier = &entity.Supplier{ID: "sup-1", Name: "Proveedor Uno", CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, f.read.Suppliers.Create(f.ctx, f.supplier))
	f.product = &entity.Product{ID: "prod-1", Code: "ABC", Name: "Bicicleta", MainSupplierID: f.supplier.ID, CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, f.read.Products.Create(f.ctx, f.product))
	f.noCode = &entity.Product{ID: "prod-2", Name: "Sin código", CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, f.read.Products.Create(f.ctx, f.noCode))
	return f
}

// candidates crea n unidades vacías del producto y las marca como candidatas.
func (f *fixture) candidates(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		u, err := f.registry.CreateUnit(f.ctx, f.product.ID)
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}
	updated, _, err := f.registry.MarkAsCandidates(f.ctx, ids)
	require.NoError(t, err)
	require.Equal(t, n, updated)
	return ids
}

// requestLine crea una solicitud con una posición de qty unidades del producto a 10.00.
func (f *fixture) requestLine(t *testing.T, qty int) *entity.RequestItem {
	t.Helper()
	req, err := f.requests.CreateRequest(f.ctx, "")
	require.NoError(t, err)
	item, err := f.requests.CreateRequestLine(f.ctx, inventory.CreateRequestLineInput{
		RequestID:    req.ID,
		ProductID:    f.product.ID,
		Quantity:     qty,
		PricePerUnit: decimal.RequireFromString("10.00"),
		SupplierID:   &f.supplier.ID,
	})
	require.NoError(t, err)
	return item
}

// unitsIn unidades del producto en el estado dado.
func (f *fixture) unitsIn(t *testing.T, status entity.UnitStatus) []*entity.ProductUnit {
	t.Helper()
	units, err := f.read.Units.List(f.ctx, repository.UnitFilter{
		Statuses:  []entity.UnitStatus{status},
		ProductID: f.product.ID,
	})
	require.NoError(t, err)
	return units
}

type recordingLocker struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() {}, nil
}

// logEntry devuelve el último registro con ese mensaje; falla si no hay ninguno.
func (f *fixture) logEntry(t *testing.T, msg string) map[string]any {
	t.Helper()
	var found map[string]any
	for _, line := range bytes.Split(f.logs.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["message"] == msg {
			found = entry
		}
	}
	require.NotNil(t, found, "sin registro %q", msg)
	return found
}
