package dto

import "time"

// CreateSupplierRequest entrada para registrar un proveedor.
type CreateSupplierRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
	Notes string `json:"notes"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
