package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery cabecera de una entrega física de un proveedor. Dueña de sus DeliveryItem.
type Delivery struct {
	ID           string
	SupplierID   string
	DeliveryDate time.Time // no puede estar en el futuro
	IsConfirmed  bool
	ConfirmedAt  *time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Estados de presentación de una posición de entrega (solo para reportes externos).
const (
	DeliveryItemNotReceived = "not_received"
	DeliveryItemPartial     = "partial"
	DeliveryItemComplete    = "complete"
	DeliveryItemSurplus     = "surplus"
)

// DeliveryItem posición de una entrega. RequestItemID es una referencia débil a la solicitud que cubre.
type DeliveryItem struct {
	ID               string
	DeliveryID       string
	ProductID        string
	RequestItemID    *string
	QuantityExpected int
	QuantityReceived int
	PricePerUnit     decimal.Decimal
	CreatedAt        time.Time
}

// ReceiptStatus compara lo recibido contra lo esperado.
func (i *DeliveryItem) ReceiptStatus() string {
	switch {
	case i.QuantityReceived == 0:
		return DeliveryItemNotReceived
	case i.QuantityReceived < i.QuantityExpected:
		return DeliveryItemPartial
	case i.QuantityReceived == i.QuantityExpected:
		return DeliveryItemComplete
	default:
		return DeliveryItemSurplus
	}
}

// Surplus cantidad recibida por encima de lo esperado (0 si no hay excedente).
func (i *DeliveryItem) Surplus() int {
	if i.QuantityReceived > i.QuantityExpected {
		return i.QuantityReceived - i.QuantityExpected
	}
	return 0
}
