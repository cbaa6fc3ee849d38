package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request cabecera de una solicitud de compra. Es dueña de sus RequestItem (borrado en cascada).
type Request struct {
	ID          string
	IsCompleted bool
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RequestItem posición de una solicitud. Las unidades apuntan a su posición mediante
// ProductUnit.RequestItemID; una posición por unidad tiene Quantity = 1.
type RequestItem struct {
	ID           string
	RequestID    string
	ProductID    string
	Quantity     int
	PricePerUnit decimal.Decimal
	SupplierID   *string
	CreatedAt    time.Time
}

// TotalCost precio por unidad * cantidad (derivado, no se persiste).
func (i *RequestItem) TotalCost() decimal.Decimal {
	return i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
