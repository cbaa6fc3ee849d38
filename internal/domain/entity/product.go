package entity

import "time"

// Product representa un producto del catálogo. Code es único y se usa para derivar
// los números de serie de sus unidades; un producto sin código no puede generar unidades.
type Product struct {
	ID             string
	Code           string
	Name           string
	Description    string
	CategoryID     string // vacío si no tiene categoría
	MainSupplierID string // proveedor habitual, opcional
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasCode indica si el producto puede derivar números de serie.
func (p *Product) HasCode() bool {
	return p != nil && p.Code != ""
}
