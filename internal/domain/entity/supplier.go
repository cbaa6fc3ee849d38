package entity

import "time"

// Supplier representa un proveedor. Sin comportamiento propio: solo se consulta.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
