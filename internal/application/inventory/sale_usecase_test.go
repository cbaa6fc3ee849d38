package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSale(t *testing.T) {
	f := newFixture(t)
	unit := receivedUnit(t, f)

	sold, err := f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{
		UnitID:  unit.ID,
		SaleRef: "FAC-001",
		Price:   decimal.RequireFromString("99.90"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UnitStatusSold, sold.Status)
	assert.Equal(t, "FAC-001", sold.SaleRef)
	require.NotNil(t, sold.SaleDate)
	assert.True(t, testNow.Equal(*sold.SaleDate), "sin fecha se usa hoy")

	other := testNow.AddDate(0, 0, -1)
	_, err = f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: unit.ID, SaleRef: "FAC-002", SaleDate: &other, Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrAlreadySold)

	got, err := f.registry.GetUnit(f.ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAC-001", got.SaleRef, "la segunda venta no toca la primera")
	require.NotNil(t, got.SaleDate)
	assert.True(t, testNow.Equal(*got.SaleDate))
	require.NotNil(t, got.SalePrice)
	assert.True(t, decimal.RequireFromString("99.90").Equal(*got.SalePrice))
}

func TestRecordSale_EstadosDeExcepcionNoSeVenden(t *testing.T) {
	for _, status := range []entity.UnitStatus{entity.UnitStatusBroken, entity.UnitStatusLost, entity.UnitStatusTransferred} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			unit := receivedUnit(t, f)
			_, err := f.registry.MarkException(f.ctx, unit.ID, status)
			require.NoError(t, err)

			_, err = f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: unit.ID, SaleRef: "FAC-9", Price: decimal.NewFromInt(5)})
			var te *domain.InvalidTransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, string(status), te.From)
			assert.Equal(t, "sold", te.To)

			got, err := f.registry.GetUnit(f.ctx, unit.ID)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
			assert.Nil(t, got.SalePrice)
			assert.Empty(t, got.SaleRef)
		})
	}
}

func TestRecordSale_FechaExplicita(t *testing.T) {
	f := newFixture(t)
	unit := receivedUnit(t, f)
	date := testNow.AddDate(0, 0, -2)

	sold, err := f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: unit.ID, SaleDate: &date, Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.True(t, date.Equal(*sold.SaleDate))
}

func TestRecordSale_UnidadEnSolicitud(t *testing.T) {
	f := newFixture(t)
	item := f.requestLine(t, 1)
	units, err := f.requests.ListLineUnits(f.ctx, item.ID)
	require.NoError(t, err)

	_, err = f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: units[0].ID, Price: decimal.NewFromInt(5)})
	var te *domain.InvalidTransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "in_request", te.From)

	got, err := f.registry.GetUnit(f.ctx, units[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.SaleDate, "la venta rechazada no deja rastros")
}

func TestRecordSale_PrecioNoPositivo(t *testing.T) {
	f := newFixture(t)
	unit := receivedUnit(t, f)

	_, err := f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: unit.ID, Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInconsistentUnit)
	assert.Equal(t, "sale_price", domain.FieldOf(err))

	got, err := f.registry.GetUnit(f.ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitStatusInStore, got.Status)
}

func TestRecordSale_UnidadInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: "x", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos ante contención
// ──────────────────────────────────────────────────────────────────────────────

type flakyRunner struct {
	inner    inventory.TxRunner
	failures int
	calls    int
	err      error
}

func (r *flakyRunner) Run(ctx context.Context, fn inventory.TxFunc) error {
	r.calls++
	if r.calls <= r.failures {
		return r.err
	}
	return r.inner.Run(ctx, fn)
}

func TestRunTx_ReintentaConflictosDeConcurrencia(t *testing.T) {
	var runner *flakyRunner
	f := newFixtureWithRunner(t, func(inner inventory.TxRunner) inventory.TxRunner {
		runner = &flakyRunner{inner: inner, failures: 2, err: domain.ErrConcurrentUpdate}
		return runner
	})

	_, err := f.requests.CreateRequest(f.ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, runner.calls)
}

func TestRunTx_AgotaIntentos(t *testing.T) {
	var runner *flakyRunner
	f := newFixtureWithRunner(t, func(inner inventory.TxRunner) inventory.TxRunner {
		runner = &flakyRunner{inner: inner, failures: 10, err: domain.ErrConcurrentUpdate}
		return runner
	})

	_, err := f.requests.CreateRequest(f.ctx, "")
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	assert.Equal(t, 3, runner.calls)
}

func TestRunTx_NoReintentaErroresDeNegocio(t *testing.T) {
	var runner *flakyRunner
	f := newFixtureWithRunner(t, func(inner inventory.TxRunner) inventory.TxRunner {
		runner = &flakyRunner{inner: inner}
		return runner
	})

	_, err := f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: "x", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, runner.calls)
}

func TestRunTx_ContextoCancelado(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := f.requests.CreateRequest(ctx, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
