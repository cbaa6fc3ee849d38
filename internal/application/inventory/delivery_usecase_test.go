package inventory_test

import (
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

func (f *fixture) delivery(t *testing.T, items ...inventory.DeliveryItemInput) *inventory.DeliveryDetail {
	t.Helper()
	d, err := f.deliveries.CreateDelivery(f.ctx, inventory.CreateDeliveryInput{
		SupplierID:   f.supplier.ID,
		DeliveryDate: testNow,
		Items:        items,
	})
	require.NoError(t, err)
	return d
}

func TestConfirmDelivery_RecibidoMayorQueEsperado(t *testing.T) {
	f := newFixture(t)
	line := f.requestLine(t, 5)
	d := f.delivery(t, inventory.DeliveryItemInput{
		ProductID:        f.product.ID,
		RequestItemID:    &line.ID,
		QuantityReceived: 7,
		PricePerUnit:     decimal.NewFromInt(9),
	})
	require.Equal(t, 5, d.Items[0].QuantityExpected, "la cantidad esperada se sincroniza con la solicitud")

	res, err := f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Received)
	assert.Equal(t, 2, res.Extras)
	assert.Equal(t, 7, res.InStore)
	assert.Equal(t, []string{"delivery:" + d.Delivery.ID}, f.locker.keys)

	inStore := f.unitsIn(t, entity.UnitStatusInStore)
	require.Len(t, inStore, 7)
	extras := 0
	for _, u := range inStore {
		require.NotNil(t, u.DeliveryItemID)
		assert.Equal(t, d.Items[0].ID, *u.DeliveryItemID)
		require.NotNil(t, u.StoreArrivalAt)
		assert.True(t, testNow.Equal(*u.StoreArrivalAt))
		require.NotNil(t, u.DeliveryDate)
		if u.IsExtraAddDeliveryItem {
			extras++
			assert.Nil(t, u.RequestItemID)
		}
	}
	assert.Equal(t, 2, extras)
	assert.Empty(t, f.unitsIn(t, entity.UnitStatusInRequest))
	assert.Empty(t, f.unitsIn(t, entity.UnitStatusInDelivery))

	got, err := f.deliveries.GetDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)
	assert.True(t, got.Delivery.IsConfirmed)
	assert.Equal(t, entity.DeliveryItemSurplus, got.Items[0].ReceiptStatus())
}

func TestConfirmDelivery_Parcial(t *testing.T) {
	f := newFixture(t)
	line := f.requestLine(t, 5)
	d := f.delivery(t, inventory.DeliveryItemInput{
		ProductID:        f.product.ID,
		RequestItemID:    &line.ID,
		QuantityReceived: 3,
		PricePerUnit:     decimal.NewFromInt(9),
	})

	res, err := f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Received)
	assert.Zero(t, res.Extras)
	assert.Len(t, f.unitsIn(t, entity.UnitStatusInStore), 3)
	assert.Len(t, f.unitsIn(t, entity.UnitStatusInRequest), 2)
	assert.Equal(t, entity.DeliveryItemPartial, d.Items[0].ReceiptStatus())
}

// Sin posición de solicitud ligada se toman unidades in_request de cualquier solicitud del producto.
func TestConfirmDelivery_SinSolicitudLigada(t *testing.T) {
	f := newFixture(t)
	f.requestLine(t, 2)
	d := f.delivery(t, inventory.DeliveryItemInput{
		ProductID:        f.product.ID,
		QuantityExpected: 2,
		QuantityReceived: 2,
		PricePerUnit:     decimal.NewFromInt(9),
	})

	res, err := f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Received)
	assert.Len(t, f.unitsIn(t, entity.UnitStatusInStore), 2)
}

// Primero las unidades de la posición ligada; el resto se completa con otras del producto.
func TestConfirmDelivery_PrioridadDeLaPosicionLigada(t *testing.T) {
	f := newFixture(t)
	other := f.requestLine(t, 3)
	linked := f.requestLine(t, 1)
	d := f.delivery(t, inventory.DeliveryItemInput{
		ProductID:        f.product.ID,
		RequestItemID:    &linked.ID,
		QuantityReceived: 1,
		PricePerUnit:     decimal.NewFromInt(9),
	})

	_, err := f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)
	linkedUnits, err := f.requests.ListLineUnits(f.ctx, linked.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitStatusInStore, linkedUnits[0].Status)
	otherUnits, err := f.requests.ListLineUnits(f.ctx, other.ID)
	require.NoError(t, err)
	for _, u := range otherUnits {
		assert.Equal(t, entity.UnitStatusInRequest, u.Status)
	}
}

func TestConfirmDelivery_YaConfirmada(t *testing.T) {
	f := newFixture(t)
	line := f.requestLine(t, 1)
	d := f.delivery(t, inventory.DeliveryItemInput{
		ProductID:        f.product.ID,
		RequestItemID:    &line.ID,
		QuantityReceived: 1,
		PricePerUnit:     decimal.NewFromInt(9),
	})
	_, err := f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)

	_, err = f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
	assert.Len(t, f.unitsIn(t, entity.UnitStatusInStore), 1, "la segunda confirmación no crea nada")

	_, err = f.deliveries.UpdateReceived(f.ctx, d.Items[0].ID, 4)
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
	assert.ErrorIs(t, f.deliveries.DeleteDelivery(f.ctx, d.Delivery.ID), domain.ErrAlreadyConfirmed)
}

func TestConfirmDelivery_BloqueoNoObtenido(t *testing.T) {
	f := newFixture(t)
	d := f.delivery(t)
	f.locker.err = domain.ErrConcurrentUpdate

	_, err := f.deliveries.ConfirmDelivery(f.ctx, d.Delivery.ID)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)

	got, err := f.deliveries.GetDelivery(f.ctx, d.Delivery.ID)
	require.NoError(t, err)
	assert.False(t, got.Delivery.IsConfirmed)
}

func TestCreateDelivery_FechaFutura(t *testing.T) {
	f := newFixture(t)

	_, err := f.deliveries.CreateDelivery(f.ctx, inventory.CreateDeliveryInput{
		SupplierID:   f.supplier.ID,
		DeliveryDate: testNow.AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, domain.ErrFutureDate)
	assert.Equal(t, "delivery_date", domain.FieldOf(err))

	// más tarde hoy sigue siendo hoy
	_, err = f.deliveries.CreateDelivery(f.ctx, inventory.CreateDeliveryInput{
		SupplierID:   f.supplier.ID,
		DeliveryDate: testNow.Add(5 * time.Hour),
	})
	assert.NoError(t, err)
}

func TestCreateDelivery_ValidacionDePosiciones(t *testing.T) {
	f := newFixture(t)
	line := f.requestLine(t, 5)

	cases := []struct {
		name  string
		item  inventory.DeliveryItemInput
		field string
	}{
		{
			name:  "recibido negativo",
			item:  inventory.DeliveryItemInput{ProductID: f.product.ID, QuantityReceived: -1},
			field: "quantity_received",
		},
		{
			name:  "esperado distinto de la solicitud",
			item:  inventory.DeliveryItemInput{ProductID: f.product.ID, RequestItemID: &line.ID, QuantityExpected: 4, QuantityReceived: 4},
			field: "quantity_expected",
		},
		{
			name:  "solicitud de otro producto",
			item:  inventory.DeliveryItemInput{ProductID: f.noCode.ID, RequestItemID: &line.ID, QuantityReceived: 1},
			field: "request_item_id",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.deliveries.CreateDelivery(f.ctx, inventory.CreateDeliveryInput{
				SupplierID:   f.supplier.ID,
				DeliveryDate: testNow,
				Items:        []inventory.DeliveryItemInput{tc.item},
			})
			var le *domain.InvalidDeliveryLineError
			require.True(t, errors.As(err, &le), "error inesperado: %v", err)
			assert.Equal(t, tc.field, le.Field)
		})
	}
}

func TestCreateDelivery_ProveedorInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.deliveries.CreateDelivery(f.ctx, inventory.CreateDeliveryInput{SupplierID: "x", DeliveryDate: testNow})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddDeliveryItemYUpdateReceived(t *testing.T) {
	f := newFixture(t)
	line := f.requestLine(t, 2)
	d := f.delivery(t)

	item, err := f.deliveries.AddDeliveryItem(f.ctx, d.Delivery.ID, inventory.DeliveryItemInput{
		ProductID:     f.product.ID,
		RequestItemID: &line.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, item.QuantityExpected)
	assert.True(t, decimal.NewFromInt(10).Equal(item.PricePerUnit), "sin precio se toma el de la solicitud")
	assert.Equal(t, entity.DeliveryItemNotReceived, item.ReceiptStatus())

	item, err = f.deliveries.UpdateReceived(f.ctx, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryItemComplete, item.ReceiptStatus())

	_, err = f.deliveries.UpdateReceived(f.ctx, item.ID, -2)
	assert.ErrorIs(t, err, domain.ErrInvalidDeliveryLine)
}

func TestDeleteDelivery(t *testing.T) {
	f := newFixture(t)
	d := f.delivery(t, inventory.DeliveryItemInput{ProductID: f.product.ID, QuantityExpected: 1})

	require.NoError(t, f.deliveries.DeleteDelivery(f.ctx, d.Delivery.ID))
	_, err := f.deliveries.GetDelivery(f.ctx, d.Delivery.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
