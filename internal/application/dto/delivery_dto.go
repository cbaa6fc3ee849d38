package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryItemRequest posición de entrega. quantity_expected 0 con request_item_id se toma de la solicitud.
type DeliveryItemRequest struct {
	ProductID        string          `json:"product_id" validate:"required"`
	RequestItemID    *string         `json:"request_item_id"`
	QuantityExpected int             `json:"quantity_expected" validate:"min=0"`
	QuantityReceived int             `json:"quantity_received"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
}

// CreateDeliveryRequest body para POST /api/deliveries. delivery_date con formato YYYY-MM-DD.
type CreateDeliveryRequest struct {
	SupplierID   string                `json:"supplier_id" validate:"required"`
	DeliveryDate string                `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	Notes        string                `json:"notes"`
	Items        []DeliveryItemRequest `json:"items" validate:"dive"`
}

// UpdateReceivedRequest body para PUT /api/delivery-items/:id.
type UpdateReceivedRequest struct {
	QuantityReceived int `json:"quantity_received"`
}

// DeliveryItemResponse posición de entrega con su estado de recepción.
type DeliveryItemResponse struct {
	ID               string          `json:"id"`
	DeliveryID       string          `json:"delivery_id"`
	ProductID        string          `json:"product_id"`
	RequestItemID    *string         `json:"request_item_id,omitempty"`
	QuantityExpected int             `json:"quantity_expected"`
	QuantityReceived int             `json:"quantity_received"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
	ReceiptStatus    string          `json:"receipt_status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// DeliveryResponse entrega con sus posiciones.
type DeliveryResponse struct {
	ID           string                 `json:"id"`
	SupplierID   string                 `json:"supplier_id"`
	DeliveryDate time.Time              `json:"delivery_date"`
	IsConfirmed  bool                   `json:"is_confirmed"`
	ConfirmedAt  *time.Time             `json:"confirmed_at,omitempty"`
	Notes        string                 `json:"notes"`
	Items        []DeliveryItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ConfirmDeliveryResponse resumen de la confirmación.
type ConfirmDeliveryResponse struct {
	DeliveryID string `json:"delivery_id"`
	Received   int    `json:"received"`
	Extras     int    `json:"extras"`
	InStore    int    `json:"in_store"`
}
