package inventory

import (
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateUnit comprueba las invariantes entre campos de una unidad antes de guardarla:
//   - in_store exige posición de entrega
//   - extra_add_delivery exige el indicador de excedente
//   - sold exige fecha y precio de venta; cualquier otro estado los exige vacíos
func ValidateUnit(u *entity.ProductUnit) error {
	if u == nil {
		return &domain.InconsistentUnitStateError{Field: "unit", Reason: "unidad nula"}
	}
	if !u.Status.Valid() {
		return &domain.InconsistentUnitStateError{Field: "status", Reason: "estado desconocido " + string(u.Status)}
	}
	if u.ProductID == "" {
		return &domain.InconsistentUnitStateError{Field: "product_id", Reason: "la unidad debe pertenecer a un producto"}
	}
	if u.Status == entity.UnitStatusInStore && u.DeliveryItemID == nil {
		return &domain.InconsistentUnitStateError{Field: "delivery_item", Reason: "para el estado en tienda debe indicarse la entrega"}
	}
	if u.Status == entity.UnitStatusExtraAddDelivery && !u.IsExtraAddDeliveryItem {
		return &domain.InconsistentUnitStateError{Field: "is_extra_add_delivery_item", Reason: "una unidad de excedente debe tener el indicador activo"}
	}
	if u.Status == entity.UnitStatusSold {
		if u.SaleDate == nil {
			return &domain.InconsistentUnitStateError{Field: "sale_date", Reason: "indique la fecha de venta"}
		}
		if u.SalePrice == nil {
			return &domain.InconsistentUnitStateError{Field: "sale_price", Reason: "indique el precio de venta"}
		}
		if !u.SalePrice.GreaterThan(decimal.Zero) {
			return &domain.InconsistentUnitStateError{Field: "sale_price", Reason: "el precio de venta debe ser positivo"}
		}
		return nil
	}
	if u.SaleDate != nil || u.SalePrice != nil {
		return &domain.InconsistentUnitStateError{Field: "status", Reason: "campos de venta presentes pero el estado no es sold"}
	}
	return nil
}
