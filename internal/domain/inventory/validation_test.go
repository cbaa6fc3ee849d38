package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitWith(status entity.UnitStatus) *entity.ProductUnit {
	return &entity.ProductUnit{ID: "u1", ProductID: "p1", SerialNumber: "RF-X", Status: status}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var e *domain.InconsistentUnitStateError
	require.True(t, errors.As(err, &e), "se esperaba InconsistentUnitStateError, llegó %v", err)
	return e.Field
}

func TestValidateUnit_EnTiendaExigeEntrega(t *testing.T) {
	u := unitWith(entity.UnitStatusInStore)
	err := inventory.ValidateUnit(u)
	assert.Equal(t, "delivery_item", fieldOf(t, err))

	item := "di1"
	u.DeliveryItemID = &item
	assert.NoError(t, inventory.ValidateUnit(u))
}

func TestValidateUnit_ExcedenteExigeIndicador(t *testing.T) {
	u := unitWith(entity.UnitStatusExtraAddDelivery)
	assert.Equal(t, "is_extra_add_delivery_item", fieldOf(t, inventory.ValidateUnit(u)))

	u.IsExtraAddDeliveryItem = true
	assert.NoError(t, inventory.ValidateUnit(u))
}

func TestValidateUnit_CamposDeVenta(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(150)

	sold := unitWith(entity.UnitStatusSold)
	assert.Equal(t, "sale_date", fieldOf(t, inventory.ValidateUnit(sold)))

	sold.SaleDate = &date
	assert.Equal(t, "sale_price", fieldOf(t, inventory.ValidateUnit(sold)))

	sold.SalePrice = &price
	assert.NoError(t, inventory.ValidateUnit(sold))

	// Campos de venta con un estado distinto de sold.
	inStore := unitWith(entity.UnitStatusCandidate)
	inStore.SalePrice = &price
	assert.Equal(t, "status", fieldOf(t, inventory.ValidateUnit(inStore)))
}

func TestValidateUnit_PrecioDeVentaNoPositivo(t *testing.T) {
	date := time.Now()
	zero := decimal.Zero
	u := unitWith(entity.UnitStatusSold)
	u.SaleDate = &date
	u.SalePrice = &zero
	assert.Equal(t, "sale_price", fieldOf(t, inventory.ValidateUnit(u)))
}
