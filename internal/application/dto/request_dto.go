package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequestRequest body para POST /api/requests.
type CreateRequestRequest struct {
	Notes string `json:"notes"`
}

// CreateRequestLineRequest body para POST /api/requests/:id/lines.
type CreateRequestLineRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	SupplierID   *string         `json:"supplier_id" validate:"omitempty"`
}

// AddUnitRequest body para POST /api/requests/:id/units.
type AddUnitRequest struct {
	UnitID       string          `json:"unit_id" validate:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	SupplierID   *string         `json:"supplier_id"`
}

// FromCandidatesRequest body para POST /api/requests/from-candidates.
type FromCandidatesRequest struct {
	UnitIDs             []string        `json:"unit_ids" validate:"required,min=1,dive,required"`
	Notes               string          `json:"notes"`
	DefaultPricePerUnit decimal.Decimal `json:"default_price_per_unit"`
}

// LinkCandidatesRequest body para POST /api/requests/:id/candidates.
type LinkCandidatesRequest struct {
	UnitIDs             []string        `json:"unit_ids" validate:"required,min=1,dive,required"`
	DefaultPricePerUnit decimal.Decimal `json:"default_price_per_unit"`
}

// SetCompletedRequest body para POST /api/requests/:id/complete.
type SetCompletedRequest struct {
	Completed bool `json:"completed"`
}

// RequestItemResponse posición de solicitud con su costo total.
type RequestItemResponse struct {
	ID           string          `json:"id"`
	RequestID    string          `json:"request_id"`
	ProductID    string          `json:"product_id"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	SupplierID   *string         `json:"supplier_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RequestResponse solicitud con posiciones y totales.
type RequestResponse struct {
	ID          string                `json:"id"`
	IsCompleted bool                  `json:"is_completed"`
	Notes       string                `json:"notes"`
	Items       []RequestItemResponse `json:"items"`
	TotalUnits  int                   `json:"total_units"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CancelLineResponse unidades canceladas.
type CancelLineResponse struct {
	RequestItemID string `json:"request_item_id"`
	Cancelled     int    `json:"cancelled"`
}
