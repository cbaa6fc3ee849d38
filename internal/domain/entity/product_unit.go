package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductUnit representa una unidad física de un producto, identificada por su número de serie.
// RequestItemID y DeliveryItemID son referencias débiles: al borrar la posición se ponen en nil,
// nunca se borra la unidad.
type ProductUnit struct {
	ID                     string
	ProductID              string // inmutable
	SerialNumber           string // único, inmutable una vez asignado
	Status                 UnitStatus
	IsExtraAddDeliveryItem bool
	RequestItemID          *string
	DeliveryItemID         *string
	DeliveryDate           *time.Time // fecha de la entrega que trajo la unidad
	StoreArrivalAt         *time.Time
	SaleRef                string
	SaleDate               *time.Time
	SalePrice              *decimal.Decimal
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Clone devuelve una copia profunda (los punteros no se comparten).
func (u *ProductUnit) Clone() *ProductUnit {
	if u == nil {
		return nil
	}
	c := *u
	c.RequestItemID = cloneString(u.RequestItemID)
	c.DeliveryItemID = cloneString(u.DeliveryItemID)
	c.DeliveryDate = cloneTime(u.DeliveryDate)
	c.StoreArrivalAt = cloneTime(u.StoreArrivalAt)
	c.SaleDate = cloneTime(u.SaleDate)
	if u.SalePrice != nil {
		p := *u.SalePrice
		c.SalePrice = &p
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
