package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest body para POST /api/units.
type CreateUnitRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// MarkCandidatesRequest body para POST /api/units/candidates.
type MarkCandidatesRequest struct {
	UnitIDs []string `json:"unit_ids" validate:"required,min=1,dive,required"`
}

// MarkCandidatesResponse unidades cambiadas y omitidas.
type MarkCandidatesResponse struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ResetUnitsRequest body para POST /api/units/reset. Responde con MarkCandidatesResponse.
type ResetUnitsRequest struct {
	UnitIDs []string `json:"unit_ids" validate:"required,min=1,dive,required"`
}

// MarkExceptionRequest body para POST /api/units/:id/exception.
type MarkExceptionRequest struct {
	Status string `json:"status" validate:"required,oneof=broken lost transferred"`
}

// RecordSaleRequest body para POST /api/units/:id/sale. SaleDate vacío = hoy.
type RecordSaleRequest struct {
	SaleRef  string          `json:"sale_ref" validate:"omitempty,max=100"`
	SaleDate *time.Time      `json:"sale_date"`
	Price    decimal.Decimal `json:"price"`
}

// UnitResponse salida de una unidad de producto.
type UnitResponse struct {
	ID                     string           `json:"id"`
	ProductID              string           `json:"product_id"`
	SerialNumber           string           `json:"serial_number"`
	Status                 string           `json:"status"`
	StatusLabel            string           `json:"status_label"`
	IsExtraAddDeliveryItem bool             `json:"is_extra_add_delivery_item"`
	RequestItemID          *string          `json:"request_item_id,omitempty"`
	DeliveryItemID         *string          `json:"delivery_item_id,omitempty"`
	DeliveryDate           *time.Time       `json:"delivery_date,omitempty"`
	StoreArrivalAt         *time.Time       `json:"store_arrival_at,omitempty"`
	SaleRef                string           `json:"sale_ref,omitempty"`
	SaleDate               *time.Time       `json:"sale_date,omitempty"`
	SalePrice              *decimal.Decimal `json:"sale_price,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// UnitListResponse lista paginada de unidades.
type UnitListResponse struct {
	Items []UnitResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// PurchasePriceResponse precio de compra de una unidad; Found=false si no llegó por una entrega.
type PurchasePriceResponse struct {
	UnitID string           `json:"unit_id"`
	Found  bool             `json:"found"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	// Delivery datos de la entrega que trajo la unidad, si existe.
	Delivery *DeliveryInfoResponse `json:"delivery,omitempty"`
}

// DeliveryInfoResponse fecha, proveedor y precio de la entrega de una unidad.
type DeliveryInfoResponse struct {
	DeliveryID   string          `json:"delivery_id"`
	DeliveryDate time.Time       `json:"delivery_date"`
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Price        decimal.Decimal `json:"price"`
}
