package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUnit_GeneraSerialYEstadoCreated(t *testing.T) {
	f := newFixture(t)

	u, err := f.registry.CreateUnit(f.ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitStatusCreated, u.Status)
	assert.Equal(t, "RF-ABC-0703140509-000000", u.SerialNumber)

	u2, err := f.registry.CreateUnit(f.ctx, f.product.ID)
	require.NoError(t, err)
	assert.NotEqual(t, u.SerialNumber, u2.SerialNumber)
}

func TestCreateUnit_ProductoSinCodigo(t *testing.T) {
	f := newFixture(t)

	_, err := f.registry.CreateUnit(f.ctx, f.noCode.ID)
	var missing *domain.MissingProductCodeError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, f.noCode.ID, missing.ProductID)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestCreateUnit_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.CreateUnit(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkAsCandidates_OmiteEstadosNoAdmitidos(t *testing.T) {
	f := newFixture(t)
	item := f.requestLine(t, 1)
	inRequest, err := f.requests.ListLineUnits(f.ctx, item.ID)
	require.NoError(t, err)
	created, err := f.registry.CreateUnit(f.ctx, f.product.ID)
	require.NoError(t, err)

	updated, skipped, err := f.registry.MarkAsCandidates(f.ctx, []string{created.ID, inRequest[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, skipped)

	got, err := f.registry.GetUnit(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitStatusCandidate, got.Status)
}

func TestMarkAsCandidates_ListaVacia(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.registry.MarkAsCandidates(f.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResetToCreated(t *testing.T) {
	f := newFixture(t)
	activeLine := f.requestLine(t, 1)
	active, err := f.requests.ListLineUnits(f.ctx, activeLine.ID)
	require.NoError(t, err)
	cancelledLine := f.requestLine(t, 1)
	_, err = f.requests.CancelRequestLine(f.ctx, cancelledLine.ID)
	require.NoError(t, err)
	cancelled := f.unitsIn(t, entity.UnitStatusInRequestCancelled)
	require.Len(t, cancelled, 1)
	stored := receivedUnit(t, f)
	// las candidatas al final: una posición nueva las reutilizaría
	candidate := f.candidates(t, 1)[0]

	updated, skipped, err := f.registry.ResetToCreated(f.ctx, []string{candidate, cancelled[0].ID, active[0].ID, stored.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 2, skipped, "in_request e in_store no se reinician")

	for _, id := range []string{candidate, cancelled[0].ID} {
		got, err := f.registry.GetUnit(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.UnitStatusCreated, got.Status)
		assert.Nil(t, got.RequestItemID, "la unidad suelta su posición")
	}
	got, err := f.registry.GetUnit(f.ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitStatusInStore, got.Status)
}

func TestResetToCreated_UnidadInexistente(t *testing.T) {
	f := newFixture(t)
	candidate := f.candidates(t, 1)[0]

	_, _, err := f.registry.ResetToCreated(f.ctx, []string{candidate, "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.unitsIn(t, entity.UnitStatusCandidate), 1, "la transacción no deja cambios a medias")
}

func TestMarkException(t *testing.T) {
	f := newFixture(t)
	u, err := f.registry.CreateUnit(f.ctx, f.product.ID)
	require.NoError(t, err)

	t.Run("estado no lateral", func(t *testing.T) {
		_, err := f.registry.MarkException(f.ctx, u.ID, entity.UnitStatusInStore)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("created a lost", func(t *testing.T) {
		got, err := f.registry.MarkException(f.ctx, u.ID, entity.UnitStatusLost)
		require.NoError(t, err)
		assert.Equal(t, entity.UnitStatusLost, got.Status)
	})
}

func TestMarkException_VendidaNoPuedeRomperse(t *testing.T) {
	f := newFixture(t)
	unit := receivedUnit(t, f)
	_, err := f.sales.RecordSale(f.ctx, inventory.RecordSaleInput{UnitID: unit.ID, Price: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = f.registry.MarkException(f.ctx, unit.ID, entity.UnitStatusBroken)
	var te *domain.InvalidTransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "sold", te.From)
	assert.Equal(t, "broken", te.To)
}

func TestListUnitsByStatus_Grupos(t *testing.T) {
	f := newFixture(t)
	f.candidates(t, 2)
	_, err := f.registry.CreateUnit(f.ctx, f.product.ID)
	require.NoError(t, err)

	available, err := f.registry.ListUnitsByStatus(f.ctx, inventory.UnitQuery{Group: "available"})
	require.NoError(t, err)
	assert.Len(t, available, 3)

	inProcess, err := f.registry.ListUnitsByStatus(f.ctx, inventory.UnitQuery{Group: "in_process"})
	require.NoError(t, err)
	assert.Empty(t, inProcess)

	cands, err := f.registry.ListUnitsByStatus(f.ctx, inventory.UnitQuery{Statuses: []entity.UnitStatus{entity.UnitStatusCandidate}})
	require.NoError(t, err)
	assert.Len(t, cands, 2)

	_, err = f.registry.ListUnitsByStatus(f.ctx, inventory.UnitQuery{Group: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.registry.ListUnitsByStatus(f.ctx, inventory.UnitQuery{Statuses: []entity.UnitStatus{"x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListUnitsByStatus_PorSolicitud(t *testing.T) {
	f := newFixture(t)
	item := f.requestLine(t, 2)
	f.requestLine(t, 1)

	units, err := f.registry.ListUnitsByStatus(f.ctx, inventory.UnitQuery{RequestID: item.RequestID})
	require.NoError(t, err)
	assert.Len(t, units, 2)
}

func TestGetPurchasePrice(t *testing.T) {
	f := newFixture(t)

	u, err := f.registry.CreateUnit(f.ctx, f.product.ID)
	require.NoError(t, err)
	_, found, err := f.registry.GetPurchasePrice(f.ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, found, "sin entrega no hay precio")

	unit := receivedUnit(t, f)
	price, found, err := f.registry.GetPurchasePrice(f.ctx, unit.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, decimal.RequireFromString("12.50").Equal(price))

	info, err := f.registry.GetDeliveryInfo(f.ctx, unit.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, f.supplier.Name, info.SupplierName)
	assert.True(t, decimal.RequireFromString("12.50").Equal(info.Price))
}

// brokenSuppliers proveedores cuyo almacenamiento falla en cada lectura.
type brokenSuppliers struct {
	repository.SupplierRepository
	err error
}

func (r brokenSuppliers) GetByID(context.Context, string) (*entity.Supplier, error) {
	return nil, r.err
}

func TestGetDeliveryInfo_PropagaErrorDeProveedores(t *testing.T) {
	f := newFixture(t)
	unit := receivedUnit(t, f)

	storageErr := errors.New("conexión perdida")
	read := f.store.Readers()
	read.Suppliers = brokenSuppliers{SupplierRepository: read.Suppliers, err: storageErr}
	clock := inventory.Clock(func() time.Time { return testNow })
	registry := inventory.NewUnitRegistry(f.store, read, dominv.NewSerialGenerator(clock), clock, logger.Nop())

	info, err := registry.GetDeliveryInfo(f.ctx, unit.ID)
	assert.ErrorIs(t, err, storageErr)
	assert.Nil(t, info)
}

// receivedUnit lleva una unidad hasta in_store: solicitud de 1 y entrega confirmada a 12.50.
func receivedUnit(t *testing.T, f *fixture) *entity.ProductUnit {
	t.Helper()
	item := f.requestLine(t, 1)
	d, err := f.deliveries.CreateDelivery(f.ctx, inventory.CreateDeliveryInput{
		SupplierID:   f.supplier.ID,
		DeliveryDate: testNow,
		Items: []inventory.DeliveryItemInput{{
			ProductID:        f.product.ID,
			RequestItemID:    &item.ID,
			QuantityReceived: 1,
			PricePerUnit:     decimal.RequireFromString("12.50"),
		}},
	})
	require.NoError(t, err)
	_, err = f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)

	units, err := f.read.Units.ListByDeliveryItem(f.ctx, d.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, entity.UnitStatusInStore, units[0].Status)
	return units[0]
}
